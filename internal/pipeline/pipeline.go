// Package pipeline runs the full extraction sequence over one document:
// candidate detection and scoring, fragment grouping and merging, line-item
// extraction, LLM reconciliation, and confidence annotation. A run is a pure
// function of its inputs; nothing is shared between concurrent runs.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/keywords"
	"github.com/pricerhq/takeoff/internal/llmextract"
	"github.com/pricerhq/takeoff/internal/pipeline/detect"
	"github.com/pricerhq/takeoff/internal/pipeline/lineitems"
	"github.com/pricerhq/takeoff/internal/pipeline/merge"
	"github.com/pricerhq/takeoff/internal/pipeline/reconcile"
)

// Pipeline extracts line items from procurement documents.
type Pipeline struct {
	kw        *keywords.Groups
	extractor llmextract.Extractor
	logger    *slog.Logger
	minScore  float64
}

// New creates a pipeline. The extractor may be nil, in which case the LLM
// pass is skipped and results are table-only.
func New(kw *keywords.Groups, extractor llmextract.Extractor, logger *slog.Logger) *Pipeline {
	if kw == nil {
		kw = keywords.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		kw:        kw,
		extractor: extractor,
		logger:    logger,
		minScore:  detect.MinScoreThreshold,
	}
}

// SetMinScore overrides the default candidate eligibility threshold.
func (p *Pipeline) SetMinScore(threshold float64) {
	p.minScore = threshold
}

// provenance records which merged table a line item came from, for the
// confidence annotator.
type provenance struct {
	reliable  bool
	fragments int
}

// Run processes one document. It never fails on LLM errors; those degrade to
// table-only output with a debug note.
func (p *Pipeline) Run(ctx context.Context, doc document.Document) (*document.ExtractionResult, error) {
	result := &document.ExtractionResult{
		Debug: document.Debug{
			KeywordConfigVersion: p.kw.Version,
		},
	}

	// Detect and score every table.
	var eligible []*detect.Candidate
	for i, table := range doc.Tables {
		cand := detect.DetectCandidate(p.kw, table, i)
		result.Debug.ScoreReasons = append(result.Debug.ScoreReasons, cand.Reasons)
		if cand.Score >= p.minScore {
			eligible = append(eligible, cand)
		} else {
			p.logger.Debug("table rejected",
				"table_index", i,
				"score", cand.Score,
				"reasons", cand.Reasons)
		}
	}
	result.Debug.CandidatesCount = len(eligible)

	// Group page fragments and merge each group.
	groups, renumbered := merge.GroupCandidates(eligible)
	mergedTables := merge.MergeGroups(groups)
	result.Debug.MergedTablesCount = len(mergedTables)
	result.Debug.RenumberedFragments = renumbered

	// Extract line items, numbering densely across merged tables.
	var tableItems []document.LineItem
	prov := make(map[int]provenance)
	next := 1
	for _, mt := range mergedTables {
		res := lineitems.Extract(mt, next)
		for _, item := range res.Items {
			prov[item.LineNumber] = provenance{
				reliable:  mt.ReliableNumbering,
				fragments: mt.FragmentCount,
			}
		}
		tableItems = append(tableItems, res.Items...)
		result.Debug.DroppedRows = append(result.Debug.DroppedRows, res.Dropped...)
		next += len(res.Items)
		if mt.NumberingGaps {
			result.Debug.ItemNumberGaps = true
		}
	}
	result.Debug.ExtractedFromTables = len(tableItems) > 0
	result.Debug.ExtractedRows = len(tableItems)

	// LLM pass. Failures degrade to table-only output.
	var llmItems []document.LineItem
	if p.extractor != nil {
		items, err := p.extractor.Extract(ctx, doc)
		if err != nil {
			p.logger.Warn("LLM extraction failed, continuing table-only", "error", err)
			result.Debug.LLMError = err.Error()
		} else {
			result.Debug.LLMUsed = true
			llmItems = items
		}
	}

	outcome := reconcile.Reconcile(tableItems, llmItems)
	result.Debug.ReconcileConflict = outcome.Conflict
	result.Debug.LLMOnlyItems = outcome.LLMOnlyCount

	result.LineItems = annotate(outcome.Items, prov, outcome.Conflict)
	result.Confidence = documentConfidence(result.LineItems, result.Debug.ItemNumberGaps, outcome.Conflict)
	result.NeedsReview = outcome.Conflict || renumbered
	result.Metadata = ScanMetadata(doc.Text)

	p.logger.Info("extraction complete",
		"tables", len(doc.Tables),
		"candidates", len(eligible),
		"merged", len(mergedTables),
		"line_items", len(result.LineItems),
		"confidence", result.Confidence,
		"needs_review", result.NeedsReview)

	return result, nil
}
