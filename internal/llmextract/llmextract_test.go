package llmextract

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/providers"
)

func testDoc() document.Document {
	return document.Document{
		Text: "MATERIAL REQUISITION\nRFQ-2024-001",
		Tables: []document.RawTable{
			{
				RowCount:    2,
				ColumnCount: 3,
				Rows: [][]string{
					{"Item", "Description", "Qty"},
					{"1", "Seamless pipe", "12"},
				},
			},
		},
	}
}

func newTestExtractor(mock *providers.MockClient) *Client {
	return NewClient(mock, Config{
		MaxAttempts: 2,
		Timeout:     5 * time.Second,
	}, nil)
}

func TestExtract(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{
		"line_items": [
			{
				"line_number": 1,
				"item_number": "1",
				"item_type": "PIPE",
				"size": "2\"",
				"description": "SEAMLESS PIPE SCH 40",
				"material_spec": "ASTM A106 Gr.B",
				"quantity": 12,
				"unit": "PCS",
				"remarks": "hot dip galvanized"
			}
		]
	}`)

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.ItemNumber != "1" {
		t.Errorf("item number = %q, want 1", item.ItemNumber)
	}
	if !strings.Contains(item.Description, "ASTM A106") {
		t.Errorf("material spec not folded into description: %q", item.Description)
	}
	if item.Quantity != 12 {
		t.Errorf("quantity = %v, want 12", item.Quantity)
	}
	if item.Spec != `2"` {
		t.Errorf("spec = %q, want 2\"", item.Spec)
	}
	if item.Notes != "hot dip galvanized" {
		t.Errorf("notes = %q", item.Notes)
	}
	if item.Source != document.SourceLLM {
		t.Errorf("source = %q, want llm", item.Source)
	}
	if item.Confidence != document.ConfidenceLow {
		t.Errorf("confidence = %q, want low", item.Confidence)
	}
}

func TestExtractNumericItemNumberAndStringQuantity(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{
		"line_items": [
			{"item_number": 7, "description": "Gate valve", "quantity": "1,250", "unit": "EA"}
		]
	}`)

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ItemNumber != "7" {
		t.Errorf("item number = %q, want 7", items[0].ItemNumber)
	}
	if items[0].Quantity != 1250 {
		t.Errorf("quantity = %v, want 1250", items[0].Quantity)
	}
}

func TestExtractEmptyResultIsNotRetried(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{"line_items": []}`)

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if mock.RequestCount() != 1 {
		t.Errorf("well-formed empty response should not retry, got %d requests", mock.RequestCount())
	}
}

func TestExtractMalformedResponseYieldsEmpty(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "I could not find any structured line items in this document."

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("malformed response must not propagate an error, got: %v", err)
	}
	if items != nil {
		t.Errorf("expected nil items, got %v", items)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("malformed response should be retried, got %d requests", mock.RequestCount())
	}
}

func TestExtractSchemaViolationYieldsEmpty(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{"line_items": "none"}`)

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestExtractTransportErrorPropagates(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true

	_, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err == nil {
		t.Fatal("expected transport error to propagate")
	}
	if mock.RequestCount() != 2 {
		t.Errorf("transport error should be retried, got %d requests", mock.RequestCount())
	}
}

func TestExtractSkipsItemsWithoutDescription(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseJSON = json.RawMessage(`{
		"line_items": [
			{"description": "Flange WN RF", "quantity": 4},
			{"description": "", "quantity": 9}
		]
	}`)

	items, err := newTestExtractor(mock).Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Description != "Flange WN RF" {
		t.Errorf("description = %q", items[0].Description)
	}
}

func TestBuildUserPayload(t *testing.T) {
	payload, err := buildUserPayload(testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(payload, "MATERIAL REQUISITION") {
		t.Error("payload missing document text")
	}
	if !strings.Contains(payload, "Item | Description | Qty") {
		t.Error("payload missing table rows")
	}
}

func TestBuildUserPayloadTruncatesLongText(t *testing.T) {
	doc := document.Document{Text: strings.Repeat("x", maxPromptTextBytes+100)}
	payload, err := buildUserPayload(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(payload, "[text truncated]") {
		t.Error("expected truncation marker")
	}
}

func TestBuildUserPayloadTruncatesOnRuneBoundary(t *testing.T) {
	// The leading ASCII byte shifts the three-byte runes off the byte limit,
	// so a naive byte slice would land mid-rune.
	doc := document.Document{Text: "x" + strings.Repeat("管", maxPromptTextBytes)}
	payload, err := buildUserPayload(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(payload, "[text truncated]") {
		t.Error("expected truncation marker")
	}
	if !utf8.ValidString(payload) {
		t.Error("truncation split a multi-byte rune")
	}
}
