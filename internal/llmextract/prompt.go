package llmextract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pricerhq/takeoff/internal/document"
)

// systemPrompt is the extraction instruction sent with every request.
const systemPrompt = `You are a procurement document analyst. You are given the OCR text and detected tables of a procurement document (RFQ, material requisition, or purchase order). Extract every line item being requested.

A line item is one row of material or equipment being procured: pipes, fittings, flanges, valves, plate, instruments, and similar. Skip revision history rows, approval/signature rows, inspection and vendor-data requirement rows, and document lists.

For each line item report:
- "line_number": sequential position starting at 1
- "item_number": the document's own item number, if printed
- "item_type": short category such as PIPE, ELBOW, FLANGE
- "size": nominal size or dimensions
- "description": full description as written
- "material_spec": material grade or standard (e.g. ASTM A106 Gr.B)
- "quantity": the piece count being ordered. When a row shows both a piece count and a total length or weight, report the piece count
- "unit": unit of measure (PCS, EA, M, KG)
- "remarks": any notes or remarks on the row

Return JSON with this exact structure:
{
  "line_items": [
    {
      "line_number": 1,
      "item_number": "1",
      "item_type": "PIPE",
      "size": "2\"",
      "description": "SEAMLESS PIPE, SCH 40",
      "material_spec": "ASTM A106 Gr.B",
      "quantity": 12,
      "unit": "PCS",
      "remarks": ""
    }
  ]
}

If the document contains no line items, return {"line_items": []}.`

// lineItemsSchema is the structured-output schema in the canonical
// {"name","schema"} wrapper understood by both provider clients.
const lineItemsSchema = `{
  "name": "line_items",
  "schema": {
    "type": "object",
    "properties": {
      "line_items": {
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "line_number": {"type": "integer"},
            "item_number": {"type": ["string", "integer", "null"]},
            "item_type": {"type": ["string", "null"]},
            "size": {"type": ["string", "null"]},
            "description": {"type": "string"},
            "material_spec": {"type": ["string", "null"]},
            "quantity": {"type": ["number", "string", "null"]},
            "unit": {"type": ["string", "null"]},
            "remarks": {"type": ["string", "null"]}
          },
          "required": ["description"]
        }
      }
    },
    "required": ["line_items"]
  }
}`

// Serialization limits keep huge OCR dumps inside the model context window.
const (
	maxPromptTextBytes = 24000
	maxPromptTableRows = 200
)

// buildUserPayload renders the document as a prompt body: raw text first,
// then each table as pipe-separated rows.
func buildUserPayload(doc document.Document) (string, error) {
	var b strings.Builder

	b.WriteString("Extract all line items from this procurement document.\n\n")

	text := doc.Text
	if len(text) > maxPromptTextBytes {
		cut := maxPromptTextBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "\n[text truncated]"
	}
	if strings.TrimSpace(text) != "" {
		b.WriteString("## Document text\n\n")
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	if len(doc.Tables) > 0 {
		b.WriteString("## Detected tables\n\n")
		rowsWritten := 0
		for i, table := range doc.Tables {
			fmt.Fprintf(&b, "### Table %d (%d rows x %d columns)\n", i+1, table.RowCount, table.ColumnCount)
			for _, row := range table.Rows {
				if rowsWritten >= maxPromptTableRows {
					b.WriteString("[remaining rows truncated]\n")
					break
				}
				b.WriteString(strings.Join(row, " | "))
				b.WriteString("\n")
				rowsWritten++
			}
			b.WriteString("\n")
			if rowsWritten >= maxPromptTableRows {
				break
			}
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("document has no text or tables")
	}
	return b.String(), nil
}
