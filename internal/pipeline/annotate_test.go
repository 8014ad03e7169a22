package pipeline

import (
	"testing"

	"github.com/pricerhq/takeoff/internal/document"
)

func TestAnnotate(t *testing.T) {
	items := []document.LineItem{
		{LineNumber: 1, Source: document.SourceTable},
		{LineNumber: 2, Source: document.SourceTable},
		{LineNumber: 3, Source: document.SourceLLM},
	}
	prov := map[int]provenance{
		1: {reliable: true, fragments: 1},
		2: {reliable: false, fragments: 2},
	}

	annotated := annotate(items, prov, false)
	if annotated[0].Confidence != document.ConfidenceHigh {
		t.Errorf("reliable single-fragment item = %q, want high", annotated[0].Confidence)
	}
	if annotated[1].Confidence != document.ConfidenceMedium {
		t.Errorf("multi-fragment item = %q, want medium", annotated[1].Confidence)
	}
	if annotated[2].Confidence != document.ConfidenceLow {
		t.Errorf("llm item = %q, want low", annotated[2].Confidence)
	}

	if !annotated[2].NeedsReview {
		t.Error("llm item must need review")
	}
	if annotated[0].NeedsReview || annotated[1].NeedsReview {
		t.Error("undisputed table items should not need review")
	}

	// The input slice is never mutated.
	if items[0].Confidence != "" {
		t.Error("annotate mutated its input")
	}
}

func TestAnnotateConflictDowngradesHigh(t *testing.T) {
	items := []document.LineItem{{LineNumber: 1, Source: document.SourceTable}}
	prov := map[int]provenance{1: {reliable: true, fragments: 1}}

	annotated := annotate(items, prov, true)
	if annotated[0].Confidence != document.ConfidenceMedium {
		t.Errorf("confidence under conflict = %q, want medium", annotated[0].Confidence)
	}
	if !annotated[0].NeedsReview {
		t.Error("disputed table item must need review")
	}
}

func TestDocumentConfidence(t *testing.T) {
	high := document.LineItem{Source: document.SourceTable, Confidence: document.ConfidenceHigh}
	low := document.LineItem{Source: document.SourceLLM, Confidence: document.ConfidenceLow}

	tests := []struct {
		name     string
		items    []document.LineItem
		gaps     bool
		conflict bool
		want     float64
	}{
		{name: "empty", want: 0},
		{name: "all high clean", items: []document.LineItem{high, high}, want: 1.0},
		{name: "all high with gaps", items: []document.LineItem{high}, gaps: true, want: 0.7},
		{name: "all high with conflict", items: []document.LineItem{high}, conflict: true, want: 0.8},
		{name: "llm only capped", items: []document.LineItem{low, low}, want: 0.5},
		{name: "mixed", items: []document.LineItem{high, low}, want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documentConfidence(tt.items, tt.gaps, tt.conflict)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("confidence = %v, want %v", got, tt.want)
			}
		})
	}
}
