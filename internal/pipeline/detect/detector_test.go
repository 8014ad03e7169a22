package detect

import (
	"testing"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/keywords"
)

func itemTable(rows [][]string) document.RawTable {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return document.RawTable{RowCount: len(rows), ColumnCount: cols, Rows: rows}
}

func TestDetectCandidate(t *testing.T) {
	kw := keywords.Default()

	table := itemTable([][]string{
		{"MATERIAL TAKE OFF", "", "", "", ""},
		{"Item No.", "Description", "Size", "Q'ty", "Unit"},
		{"1", "Pipe, SMLS, ASTM A106 Gr.B", "2\"", "12", "PCS"},
		{"2", "Elbow 90 LR, A234 WPB", "2\"", "6", "PCS"},
		{"3", "Flange WN RF, A105", "2\"", "4", "PCS"},
	})

	c := DetectCandidate(kw, table, 0)

	if c.HeaderRowIndex != 1 {
		t.Errorf("header row = %d, want 1", c.HeaderRowIndex)
	}
	if c.DataStartRowIndex != 2 {
		t.Errorf("data start = %d, want 2", c.DataStartRowIndex)
	}
	wantCols := map[keywords.Role]int{
		keywords.RoleItemNumber:  0,
		keywords.RoleDescription: 1,
		keywords.RoleSpec:        2,
		keywords.RoleQuantity:    3,
		keywords.RoleUnit:        4,
	}
	for role, idx := range wantCols {
		if got, ok := c.Columns[role]; !ok || got != idx {
			t.Errorf("column %s = %d (present=%v), want %d", role, got, ok, idx)
		}
	}
	if c.NumericItemRows != 3 {
		t.Errorf("numeric item rows = %d, want 3", c.NumericItemRows)
	}
	if c.FirstItem() != 1 || c.LastItem() != 3 {
		t.Errorf("item range = %d..%d, want 1..3", c.FirstItem(), c.LastItem())
	}
	if !c.Eligible() {
		t.Errorf("expected eligible candidate, score=%.1f reasons=%v", c.Score, c.Reasons)
	}
}

func TestDetectCandidateQuantityPriority(t *testing.T) {
	kw := keywords.Default()

	// Both a piece-count column and a linear-total column are present; the
	// quantity role must bind to the piece count.
	table := itemTable([][]string{
		{"Item", "Description", "Round Qty", "Total As Drawing", "Unit"},
		{"1", "Pipe A106", "36", "428.91", "PCS"},
	})

	c := DetectCandidate(kw, table, 0)
	if got := c.Columns[keywords.RoleQuantity]; got != 2 {
		t.Errorf("quantity column = %d, want 2 (round qty)", got)
	}
}

func TestDetectCandidateHeaderFallback(t *testing.T) {
	kw := keywords.Default()

	table := itemTable([][]string{
		{"alpha", "beta"},
		{"gamma", "delta"},
	})
	c := DetectCandidate(kw, table, 3)
	if c.HeaderRowIndex != 0 {
		t.Errorf("header row = %d, want fallback 0", c.HeaderRowIndex)
	}
	if c.Eligible() {
		t.Errorf("unrecognizable table should not be eligible, score=%.1f", c.Score)
	}
	if c.TableIndex != 3 {
		t.Errorf("table index = %d, want 3", c.TableIndex)
	}
}

func TestDetectCandidateWithoutItemColumn(t *testing.T) {
	kw := keywords.Default()

	// No item_number role; numeric counting falls back to the first column.
	table := itemTable([][]string{
		{"Description", "Qty", "Unit"},
		{"Gasket spiral wound", "10", "PCS"},
		{"Stud bolt set", "40", "SET"},
	})
	c := DetectCandidate(kw, table, 0)
	if _, ok := c.Columns[keywords.RoleItemNumber]; ok {
		t.Error("item_number role should be unmapped")
	}
	if c.NumericItemRows != 0 {
		t.Errorf("numeric item rows = %d, want 0 (descriptions are not integers)", c.NumericItemRows)
	}
}

func TestParsePositiveInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 12 ", 12, true},
		{"3.", 3, true},
		{"0", 0, false},
		{"-4", 0, false},
		{"2a", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := parsePositiveInt(tc.in)
		if n != tc.want || ok != tc.ok {
			t.Errorf("parsePositiveInt(%q) = (%d, %v), want (%d, %v)", tc.in, n, ok, tc.want, tc.ok)
		}
	}
}
