package llmextract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pricerhq/takeoff/internal/document"
)

// wireResult is the JSON shape the model is asked to produce.
type wireResult struct {
	LineItems []wireLineItem `json:"line_items"`
}

type wireLineItem struct {
	LineNumber   int          `json:"line_number,omitempty"`
	ItemNumber   wireString   `json:"item_number,omitempty"`
	ItemType     string       `json:"item_type,omitempty"`
	Size         string       `json:"size,omitempty"`
	Description  string       `json:"description,omitempty"`
	MaterialSpec string       `json:"material_spec,omitempty"`
	Quantity     wireQuantity `json:"quantity,omitempty"`
	Unit         string       `json:"unit,omitempty"`
	Remarks      string       `json:"remarks,omitempty"`
}

// toLineItem maps the wire shape onto the canonical LineItem. Size binds to
// the spec field, remarks to notes, and the material spec is folded into the
// description when the model kept them separate.
func (w wireLineItem) toLineItem() document.LineItem {
	desc := strings.TrimSpace(w.Description)
	if desc == "" {
		desc = strings.TrimSpace(w.ItemType)
	}
	if spec := strings.TrimSpace(w.MaterialSpec); spec != "" && !strings.Contains(strings.ToLower(desc), strings.ToLower(spec)) {
		if desc == "" {
			desc = spec
		} else {
			desc = desc + ", " + spec
		}
	}

	return document.LineItem{
		LineNumber:  w.LineNumber,
		ItemNumber:  strings.TrimSpace(string(w.ItemNumber)),
		Description: desc,
		Quantity:    float64(w.Quantity),
		Unit:        strings.TrimSpace(w.Unit),
		Spec:        strings.TrimSpace(w.Size),
		Notes:       strings.TrimSpace(w.Remarks),
		Source:      document.SourceLLM,
		Confidence:  document.ConfidenceLow,
	}
}

// wireString accepts either a JSON string or a number. Models frequently
// emit item numbers as integers.
type wireString string

func (s *wireString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = wireString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = wireString(num.String())
	return nil
}

// wireQuantity accepts a number or a numeric string, tolerating thousands
// separators. Anything unparseable decodes to zero rather than failing the
// whole response.
type wireQuantity float64

func (q *wireQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*q = 0
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.ReplaceAll(strings.TrimSpace(str), ",", "")
		if str == "" {
			*q = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			*q = 0
			return nil
		}
		*q = wireQuantity(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*q = wireQuantity(f)
	return nil
}
