// Package document defines the shared data model for procurement document
// extraction. This package has no dependencies on other takeoff packages to
// avoid import cycles.
package document

// RawTable is one table exactly as detected by the external OCR/layout
// service. Rows are never mutated by the pipeline.
type RawTable struct {
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
	Rows        [][]string `json:"rows"`
}

// Document is the inbound shape produced by the OCR/layout service.
type Document struct {
	Text     string     `json:"text"`
	Tables   []RawTable `json:"tables"`
	RawPages int        `json:"raw_pages"`
}

// Cell returns the cell at (row, col), or "" when out of range. OCR output
// routinely has ragged rows.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Source indicates which extraction pass produced a line item.
type Source string

const (
	// SourceTable indicates deterministic extraction from a scored table.
	SourceTable Source = "table"
	// SourceLLM indicates the item came only from the LLM pass.
	SourceLLM Source = "llm"
)

// ConfidenceLevel indicates the per-item confidence of an extraction.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ParseConfidenceLevel converts a string to a ConfidenceLevel.
// Returns ConfidenceLow if the string is not recognized.
func ParseConfidenceLevel(s string) ConfidenceLevel {
	switch s {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

// LineItem is one extracted procurement line. LineNumber is a dense 1..N
// sequence assigned after merge; ItemNumber preserves the document's own
// (possibly gapped) numbering.
type LineItem struct {
	LineNumber  int             `json:"line_number"`
	ItemNumber  string          `json:"item_number,omitempty"`
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Spec        string          `json:"spec,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Source      Source          `json:"source"`
	Confidence  ConfidenceLevel `json:"confidence"`
	NeedsReview bool            `json:"needs_review"`
}

// Metadata is best-effort document header information scanned from raw text.
type Metadata struct {
	ClientName   string `json:"client_name,omitempty"`
	RFQReference string `json:"rfq_reference,omitempty"`
	Date         string `json:"date,omitempty"`
}

// DroppedRow records a data row that could not be mapped to a line item.
type DroppedRow struct {
	TableIndex int    `json:"table_index"`
	RowIndex   int    `json:"row_index"`
	Reason     string `json:"reason"`
}

// Debug carries pipeline internals so regressions are detectable downstream.
type Debug struct {
	CandidatesCount      int          `json:"candidates_count"`
	MergedTablesCount    int          `json:"merged_tables_count"`
	ExtractedFromTables  bool         `json:"extracted_from_tables"`
	LLMUsed              bool         `json:"llm_used"`
	LLMError             string       `json:"llm_error,omitempty"`
	LLMOnlyItems         int          `json:"llm_only_items,omitempty"`
	RenumberedFragments  bool         `json:"renumbered_fragments,omitempty"`
	ReconcileConflict    bool         `json:"reconcile_conflict,omitempty"`
	ItemNumberGaps       bool         `json:"item_number_gaps,omitempty"`
	ExtractedRows        int          `json:"extracted_rows"`
	DroppedRows          []DroppedRow `json:"dropped_rows,omitempty"`
	ScoreReasons         [][]string   `json:"score_reasons,omitempty"`
	KeywordConfigVersion string       `json:"keyword_config_version,omitempty"`
}

// ExtractionResult is the final outbound shape consumed by the pricing/RFQ
// workbench.
type ExtractionResult struct {
	Metadata    Metadata   `json:"metadata"`
	LineItems   []LineItem `json:"line_items"`
	Confidence  float64    `json:"confidence"`
	NeedsReview bool       `json:"needs_review"`
	Debug       Debug      `json:"debug"`
}
