// Package detect profiles OCR-detected tables and scores how likely each one
// is to be the document's line-item table rather than a revision-history,
// approval-signature, or inspection/VDRL block.
package detect

import (
	"strconv"
	"strings"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/keywords"
)

// headerScanRows is how many leading rows are scanned for the header row.
// Vendor layouts put the header anywhere in the first few rows.
const headerScanRows = 4

// Candidate is the structural profile of one raw table.
type Candidate struct {
	TableIndex        int                   `json:"table_index"`
	Table             document.RawTable     `json:"-"`
	HeaderRowIndex    int                   `json:"header_row_index"`
	DataStartRowIndex int                   `json:"data_start_row_index"`
	Columns           map[keywords.Role]int `json:"columns"`
	NumericItemRows   int                   `json:"numeric_item_rows"`
	// ItemNumbers holds the numeric item numbers found in data rows, in row
	// order. Used by the merger for contiguity checks.
	ItemNumbers []int    `json:"item_numbers,omitempty"`
	Score       float64  `json:"score"`
	Signals     Signals  `json:"signals"`
	Reasons     []string `json:"reasons"`
}

// FirstItem returns the first numeric item number, or 0 when none exist.
func (c *Candidate) FirstItem() int {
	if len(c.ItemNumbers) == 0 {
		return 0
	}
	return c.ItemNumbers[0]
}

// LastItem returns the last numeric item number, or 0 when none exist.
func (c *Candidate) LastItem() int {
	if len(c.ItemNumbers) == 0 {
		return 0
	}
	return c.ItemNumbers[len(c.ItemNumbers)-1]
}

// Eligible reports whether the candidate passed the scoring threshold.
func (c *Candidate) Eligible() bool {
	return c.Score >= MinScoreThreshold
}

// DetectCandidate builds the structural profile for one raw table. Every
// table yields a candidate; the score decides eligibility.
func DetectCandidate(kw *keywords.Groups, table document.RawTable, index int) *Candidate {
	headerRow := locateHeaderRow(kw, table)
	headers := rowAt(table, headerRow)
	dataStart := headerRow + 1

	columns := buildColumnMap(kw, headers)
	numbers := collectItemNumbers(table, columns, dataStart)

	score, signals, reasons := Score(kw, headers, table.Rows[min(dataStart, len(table.Rows)):])

	return &Candidate{
		TableIndex:        index,
		Table:             table,
		HeaderRowIndex:    headerRow,
		DataStartRowIndex: dataStart,
		Columns:           columns,
		NumericItemRows:   len(numbers),
		ItemNumbers:       numbers,
		Score:             score,
		Signals:           signals,
		Reasons:           reasons,
	}
}

// locateHeaderRow scans the first few rows and picks the one with the highest
// density of recognizable header tokens. Falls back to row 0.
func locateHeaderRow(kw *keywords.Groups, table document.RawTable) int {
	best, bestCount := 0, 0
	limit := min(headerScanRows, len(table.Rows))
	for r := 0; r < limit; r++ {
		count := 0
		for _, cell := range table.Rows[r] {
			if _, ok := kw.Classify(cell); ok {
				count++
				continue
			}
			if kw.MatchesRevision(cell) || kw.MatchesInspection(cell) || kw.IsLengthWeight(cell) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = r, count
		}
	}
	return best
}

// buildColumnMap classifies each header cell into at most one column role and
// each role into at most one column. When several columns claim the quantity
// role, the piece-count ("round") column wins over plain quantity; linear and
// weight totals never qualify.
func buildColumnMap(kw *keywords.Groups, headers []string) map[keywords.Role]int {
	columns := make(map[keywords.Role]int)
	qtyPriority := 0
	for i, h := range headers {
		role, ok := kw.Classify(h)
		if !ok {
			continue
		}
		if role == keywords.RoleQuantity {
			if p := kw.QuantityPriority(h); p > qtyPriority {
				columns[role] = i
				qtyPriority = p
			}
			continue
		}
		if _, taken := columns[role]; !taken {
			columns[role] = i
		}
	}
	return columns
}

// collectItemNumbers gathers positive-integer item numbers from data rows,
// reading the item_number column or, absent that role, the first column.
func collectItemNumbers(table document.RawTable, columns map[keywords.Role]int, dataStart int) []int {
	col, ok := columns[keywords.RoleItemNumber]
	if !ok {
		col = 0
	}
	var numbers []int
	for r := dataStart; r < len(table.Rows); r++ {
		if n, ok := parsePositiveInt(table.Cell(r, col)); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// parsePositiveInt parses a trimmed cell as a positive integer, tolerating a
// trailing period ("1." is a common OCR artifact).
func parsePositiveInt(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func rowAt(table document.RawTable, idx int) []string {
	if idx < 0 || idx >= len(table.Rows) {
		return nil
	}
	return table.Rows[idx]
}
