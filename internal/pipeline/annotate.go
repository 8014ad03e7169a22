package pipeline

import "github.com/pricerhq/takeoff/internal/document"

// Weights of the document-level confidence score. Item quality dominates;
// numbering gaps and reconciliation conflicts each shave a fixed share.
const (
	itemQualityWeight = 0.5
	noGapsWeight      = 0.3
	noConflictWeight  = 0.2

	// Documents extracted purely by the LLM pass never score above this.
	llmOnlyConfidenceCap = 0.6
)

// annotate assigns per-item confidence and the per-item review flag. Table
// items from a merged table with reliable numbering are high confidence
// unless reconciliation found a conflict or the table was stitched from
// multiple fragments; those drop to medium. LLM-sourced items are always low
// and always require human confirmation, as do table items whose lines the
// LLM pass disputed.
func annotate(items []document.LineItem, prov map[int]provenance, conflict bool) []document.LineItem {
	annotated := make([]document.LineItem, len(items))
	copy(annotated, items)

	for i := range annotated {
		if annotated[i].Source == document.SourceLLM {
			annotated[i].Confidence = document.ConfidenceLow
			annotated[i].NeedsReview = true
			continue
		}
		pv := prov[annotated[i].LineNumber]
		if pv.reliable && pv.fragments < 2 && !conflict {
			annotated[i].Confidence = document.ConfidenceHigh
		} else {
			annotated[i].Confidence = document.ConfidenceMedium
		}
		annotated[i].NeedsReview = conflict
	}
	return annotated
}

// documentConfidence folds the per-item levels and the structural signals
// into a single 0..1 score.
func documentConfidence(items []document.LineItem, gaps, conflict bool) float64 {
	if len(items) == 0 {
		return 0
	}

	trusted := 0
	allLLM := true
	for _, item := range items {
		if item.Confidence != document.ConfidenceLow {
			trusted++
		}
		if item.Source != document.SourceLLM {
			allLLM = false
		}
	}

	score := itemQualityWeight * float64(trusted) / float64(len(items))
	if !gaps {
		score += noGapsWeight
	}
	if !conflict {
		score += noConflictWeight
	}

	if allLLM && score > llmOnlyConfidenceCap {
		score = llmOnlyConfidenceCap
	}
	return score
}
