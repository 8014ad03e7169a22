// Package reconcile merges the LLM extraction pass into the deterministic
// table extraction. Deterministic items always win; the LLM pass only fills
// gaps the table pass missed.
package reconcile

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/keywords"
)

// A count disagreement this large over the same numbering range marks the
// document for review instead of silently trusting either side.
const materialCountRatio = 0.25

// Outcome is the result of reconciling the two extraction passes.
type Outcome struct {
	Items        []document.LineItem
	Conflict     bool
	LLMOnlyCount int
}

// Reconcile combines deterministic table items with LLM items. Table items
// are ground truth: an LLM item matching one by item number or description is
// discarded. Unmatched LLM items are appended with dense line numbers
// continuing after the table items. When the LLM disputes a line the table
// pass already extracted, or the item counts over the shared numbering range
// diverge materially, Conflict is set.
func Reconcile(tableItems, llmItems []document.LineItem) Outcome {
	out := Outcome{Items: tableItems}

	if len(llmItems) == 0 {
		return out
	}

	if len(tableItems) == 0 {
		accepted := make([]document.LineItem, len(llmItems))
		copy(accepted, llmItems)
		sort.SliceStable(accepted, func(i, j int) bool {
			ni, iok := parseItemNumber(accepted[i].ItemNumber)
			nj, jok := parseItemNumber(accepted[j].ItemNumber)
			if iok && jok {
				return ni < nj
			}
			return iok && !jok
		})
		for i := range accepted {
			accepted[i].LineNumber = i + 1
			accepted[i].Source = document.SourceLLM
			accepted[i].Confidence = document.ConfidenceLow
		}
		out.Items = accepted
		out.LLMOnlyCount = len(accepted)
		return out
	}

	tableNumbers := make(map[int]bool)
	tableDescs := make([]string, 0, len(tableItems))
	minNum, maxNum := 0, 0
	for _, item := range tableItems {
		tableDescs = append(tableDescs, keywords.Normalize(item.Description))
		n, ok := parseItemNumber(item.ItemNumber)
		if !ok {
			continue
		}
		tableNumbers[n] = true
		if minNum == 0 || n < minNum {
			minNum = n
		}
		if n > maxNum {
			maxNum = n
		}
	}

	var additions []document.LineItem
	llmInRange := 0
	disputed := false

	for _, llm := range llmItems {
		n, numbered := parseItemNumber(llm.ItemNumber)
		if numbered && minNum > 0 && n >= minNum && n <= maxNum {
			llmInRange++
		}

		if numbered && tableNumbers[n] {
			// The table pass already extracted this line. If the LLM saw a
			// different item under the same number, the disagreement is
			// review-worthy but the deterministic row still wins.
			if !descMatches(keywords.Normalize(llm.Description), tableDescs) {
				disputed = true
			}
			continue
		}
		if descMatches(keywords.Normalize(llm.Description), tableDescs) {
			continue
		}
		additions = append(additions, llm)
	}

	sort.SliceStable(additions, func(i, j int) bool {
		ni, iok := parseItemNumber(additions[i].ItemNumber)
		nj, jok := parseItemNumber(additions[j].ItemNumber)
		if iok && jok {
			return ni < nj
		}
		return iok && !jok
	})

	next := 0
	for _, item := range tableItems {
		if item.LineNumber > next {
			next = item.LineNumber
		}
	}
	merged := make([]document.LineItem, len(tableItems), len(tableItems)+len(additions))
	copy(merged, tableItems)
	for _, add := range additions {
		next++
		add.LineNumber = next
		add.Source = document.SourceLLM
		add.Confidence = document.ConfidenceLow
		merged = append(merged, add)
	}

	out.Items = merged
	out.LLMOnlyCount = len(additions)
	out.Conflict = disputed || materialCountDisagreement(len(tableItems), llmInRange)
	return out
}

// materialCountDisagreement reports whether the two passes counted the same
// numbering range very differently.
func materialCountDisagreement(tableCount, llmInRange int) bool {
	if tableCount == 0 || llmInRange == 0 {
		return false
	}
	diff := tableCount - llmInRange
	if diff < 0 {
		diff = -diff
	}
	larger := tableCount
	if llmInRange > larger {
		larger = llmInRange
	}
	return diff >= 2 && float64(diff)/float64(larger) >= materialCountRatio
}

// descMatches reports whether a normalized description matches any table
// description, by equality or containment. Models often reword or shorten.
func descMatches(desc string, tableDescs []string) bool {
	if desc == "" {
		return false
	}
	for _, td := range tableDescs {
		if td == "" {
			continue
		}
		if td == desc || strings.Contains(td, desc) || strings.Contains(desc, td) {
			return true
		}
	}
	return false
}

// parseItemNumber extracts a positive integer item number, tolerating a
// trailing period.
func parseItemNumber(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
