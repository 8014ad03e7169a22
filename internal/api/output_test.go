package api

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pricerhq/takeoff/internal/document"
)

func sampleResult() *document.ExtractionResult {
	return &document.ExtractionResult{
		LineItems: []document.LineItem{
			{LineNumber: 1, Description: "Seamless pipe", Quantity: 12, Source: document.SourceTable, Confidence: document.ConfidenceHigh},
		},
		Confidence: 0.9,
	}
}

func TestOutputToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatJSON, sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"line_items"`) {
		t.Errorf("missing line_items key in %s", out)
	}
	if !strings.Contains(out, `"confidence": 0.9`) {
		t.Errorf("missing confidence in %s", out)
	}
}

func TestOutputToYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatYAML, map[string]int{"items": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "items: 3") {
		t.Errorf("unexpected yaml: %s", buf.String())
	}
}

func TestOutputToUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormat("xml"), sampleResult()); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("json")

	SetOutputFormat("yaml")
	if GetOutputFormat() != OutputFormatYAML {
		t.Errorf("format = %q, want yaml", GetOutputFormat())
	}
	SetOutputFormat("bogus")
	if GetOutputFormat() != OutputFormatJSON {
		t.Errorf("unknown format should fall back to json, got %q", GetOutputFormat())
	}
}
