package detect

import (
	"strings"
	"testing"

	"github.com/pricerhq/takeoff/internal/keywords"
)

func TestScoreRevisionTableRejected(t *testing.T) {
	kw := keywords.Default()

	// Revision blocks often carry an incidental description column and even
	// numbered rows; the penalty must still push them below threshold.
	headers := []string{"Rev.", "Description", "Prepared By", "Checked By", "Approved By"}
	rows := [][]string{
		{"1", "Issued for Approval", "JDM", "KL", "PB"},
		{"2", "Issued for Construction", "JDM", "KL", "PB"},
	}

	score, signals, reasons := Score(kw, headers, rows)
	if !signals.Revision {
		t.Fatal("revision signal not set")
	}
	if score >= MinScoreThreshold {
		t.Errorf("revision table score = %.1f, want < %.1f (reasons: %v)", score, MinScoreThreshold, reasons)
	}
	if !hasReason(reasons, "revision_penalty") {
		t.Errorf("missing revision_penalty reason: %v", reasons)
	}
}

func TestScoreInspectionTableRejected(t *testing.T) {
	kw := keywords.Default()

	headers := []string{"No", "Description", "Inspection", "Witness", "Hold"}
	rows := [][]string{
		{"1", "Hydrostatic test", "X", "W", ""},
		{"2", "Dimensional check", "X", "", "H"},
	}

	score, signals, reasons := Score(kw, headers, rows)
	if !signals.Inspection {
		t.Fatal("inspection signal not set")
	}
	if score >= MinScoreThreshold {
		t.Errorf("inspection table score = %.1f, want < %.1f (reasons: %v)", score, MinScoreThreshold, reasons)
	}
}

func TestScoreLineItemTableAccepted(t *testing.T) {
	kw := keywords.Default()

	headers := []string{"Item No", "Description", "Qty", "Unit"}
	rows := [][]string{
		{"1", "Pipe SMLS A106", "12", "PCS"},
	}

	score, signals, reasons := Score(kw, headers, rows)
	if signals.CoreRoles < 3 {
		t.Fatalf("core roles = %d, want >= 3", signals.CoreRoles)
	}
	if signals.NumericRows < 1 {
		t.Fatalf("numeric rows = %d, want >= 1", signals.NumericRows)
	}
	if score < MinScoreThreshold {
		t.Errorf("score = %.1f, want >= %.1f (reasons: %v)", score, MinScoreThreshold, reasons)
	}
	for _, want := range []string{"item_number_group", "description_group", "quantity_group", "unit_group", "multi_group_bonus", "numeric_items"} {
		if !hasReason(reasons, want) {
			t.Errorf("missing reason %q in %v", want, reasons)
		}
	}
}

func TestScoreLineItemTableAcceptedDespiteSparsity(t *testing.T) {
	kw := keywords.Default()

	// Worst-case sparsity still cannot sink a table with three core roles and
	// a numeric item row.
	headers := []string{"Item", "Description", "Qty"}
	rows := [][]string{
		{"1", "Valve gate", "2"},
		{"", "", ""},
		{"", "", ""},
		{"", "", ""},
	}

	score, _, reasons := Score(kw, headers, rows)
	if score < MinScoreThreshold {
		t.Errorf("score = %.1f, want >= %.1f (reasons: %v)", score, MinScoreThreshold, reasons)
	}
}

func TestScoreNarrowHeaderPenalized(t *testing.T) {
	kw := keywords.Default()

	narrow, _, narrowReasons := Score(kw, []string{"Description", "Qty"}, nil)
	wide, _, _ := Score(kw, []string{"Description", "Qty", "Unit"}, nil)
	if narrow >= wide {
		t.Errorf("narrow header score %.1f not below wider score %.1f", narrow, wide)
	}
	if !hasReason(narrowReasons, "narrow_header") {
		t.Errorf("missing narrow_header reason: %v", narrowReasons)
	}
}

func TestScoreSparsityPenalty(t *testing.T) {
	kw := keywords.Default()

	headers := []string{"Item", "Description", "Qty", "Unit"}
	dense := [][]string{{"1", "Pipe", "2", "PCS"}}
	sparse := [][]string{{"1", "Pipe", "2", "PCS"}, {"", "", "", ""}, {"", "", "", ""}}

	denseScore, _, _ := Score(kw, headers, dense)
	sparseScore, sparseSignals, _ := Score(kw, headers, sparse)
	if sparseScore >= denseScore {
		t.Errorf("sparse score %.1f not below dense score %.1f", sparseScore, denseScore)
	}
	if sparseSignals.Sparsity <= 0 {
		t.Errorf("sparsity signal = %.2f, want > 0", sparseSignals.Sparsity)
	}
}

func TestScoreDeterministic(t *testing.T) {
	kw := keywords.Default()
	headers := []string{"Item No", "Description", "Qty", "Unit"}
	rows := [][]string{{"1", "Pipe", "12", "PCS"}, {"2", "Elbow", "", "PCS"}}

	s1, _, r1 := Score(kw, headers, rows)
	s2, _, r2 := Score(kw, headers, rows)
	if s1 != s2 {
		t.Errorf("scores differ across runs: %.3f vs %.3f", s1, s2)
	}
	if strings.Join(r1, "|") != strings.Join(r2, "|") {
		t.Errorf("reasons differ across runs: %v vs %v", r1, r2)
	}
}

func hasReason(reasons []string, prefix string) bool {
	for _, r := range reasons {
		if strings.HasPrefix(r, prefix+":") {
			return true
		}
	}
	return false
}
