// Package lineitems walks merged tables row by row and maps each data row to
// a structured procurement line item using the inferred column roles.
package lineitems

import (
	"strconv"
	"strings"

	"github.com/pricerhq/takeoff/internal/document"
	"github.com/pricerhq/takeoff/internal/keywords"
	"github.com/pricerhq/takeoff/internal/pipeline/merge"
)

// Drop reasons recorded for rows that cannot become line items.
const (
	DropMissingDescription = "missing_description"
	DropMissingItemNumber  = "missing_item_number"
)

// Result carries extracted items plus the dropped-row ledger for debugging.
type Result struct {
	Items   []document.LineItem
	Dropped []document.DroppedRow
}

// Extract maps every data row of a merged table to a line item. Rows lacking
// a usable item number or description are skipped with a recorded reason,
// never zero-filled. LineNumber is assigned as a dense 1..N index over the
// surviving rows in row order, starting at next (1-based offset across
// multiple merged tables).
func Extract(mt *merge.MergedTable, next int) Result {
	var res Result

	itemCol, hasItemCol := mt.Columns[keywords.RoleItemNumber]
	descCol, hasDescCol := mt.Columns[keywords.RoleDescription]

	for i, row := range mt.Rows {
		origin := mt.Origins[i]

		desc := ""
		if hasDescCol {
			desc = cleanCell(cell(row, descCol))
		}
		if desc == "" {
			res.Dropped = append(res.Dropped, document.DroppedRow{
				TableIndex: origin.TableIndex,
				RowIndex:   origin.RowIndex,
				Reason:     DropMissingDescription,
			})
			continue
		}

		itemNumber := ""
		if hasItemCol {
			itemNumber = cleanCell(cell(row, itemCol))
			if itemNumber == "" {
				res.Dropped = append(res.Dropped, document.DroppedRow{
					TableIndex: origin.TableIndex,
					RowIndex:   origin.RowIndex,
					Reason:     DropMissingItemNumber,
				})
				continue
			}
		}

		item := document.LineItem{
			LineNumber:  next + len(res.Items),
			ItemNumber:  itemNumber,
			Description: desc,
			Source:      document.SourceTable,
		}
		if col, ok := mt.Columns[keywords.RoleQuantity]; ok {
			item.Quantity = parseQuantity(cell(row, col))
		}
		if col, ok := mt.Columns[keywords.RoleUnit]; ok {
			item.Unit = cleanCell(cell(row, col))
		}
		if col, ok := mt.Columns[keywords.RoleSpec]; ok {
			item.Spec = cleanCell(cell(row, col))
		}
		if col, ok := mt.Columns[keywords.RoleNotes]; ok {
			item.Notes = cleanCell(cell(row, col))
		}
		res.Items = append(res.Items, item)
	}

	return res
}

// parseQuantity parses a quantity cell leniently: thousands separators are
// stripped and anything non-numeric yields zero rather than an error.
func parseQuantity(s string) float64 {
	s = strings.ReplaceAll(cleanCell(s), ",", "")
	if s == "" {
		return 0
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 {
		return 0
	}
	return q
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// cleanCell trims whitespace and collapses internal runs OCR tends to insert.
func cleanCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
