package merge

import (
	"sort"

	"github.com/pricerhq/takeoff/internal/keywords"
	"github.com/pricerhq/takeoff/internal/pipeline/detect"
)

// RowOrigin records where a merged data row came from in the source document.
type RowOrigin struct {
	TableIndex int `json:"table_index"`
	RowIndex   int `json:"row_index"`
}

// MergedTable is the concatenation of a group's data rows under a single
// column map.
type MergedTable struct {
	Columns map[keywords.Role]int `json:"columns"`
	// Rows holds data rows only; header rows of every fragment are dropped.
	Rows    [][]string  `json:"rows"`
	Origins []RowOrigin `json:"origins"`
	// SourceTableIndices records provenance in merge order.
	SourceTableIndices []int `json:"source_table_indices"`
	// NumericItemRows is the union item-number range size across fragments,
	// not the naive row count, so renumbered rows are tolerated.
	NumericItemRows int `json:"numeric_item_rows"`
	FragmentCount   int `json:"fragment_count"`
	FirstItem       int `json:"first_item,omitempty"`
	LastItem        int `json:"last_item,omitempty"`
	// ReliableNumbering is set when the union of item numbers covers its
	// range without gaps or duplicates.
	ReliableNumbering bool `json:"reliable_numbering"`
	// NumberingGaps is set when item numbers exist but do not cover the
	// full first..last range.
	NumberingGaps bool `json:"numbering_gaps"`
	// Score is the best member score, used to order merged tables.
	Score float64 `json:"score"`
}

// Merge concatenates a group's data rows in tableIndex order under the column
// map of its highest-scoring member. Merging never loses or duplicates a row:
// the merged row count always equals the sum of the fragments' data row
// counts.
func Merge(g *Group) *MergedTable {
	members := make([]*detect.Candidate, len(g.Members))
	copy(members, g.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].TableIndex < members[j].TableIndex
	})

	best := members[0]
	for _, m := range members[1:] {
		if m.Score > best.Score {
			best = m
		}
	}

	mt := &MergedTable{
		Columns:       best.Columns,
		FragmentCount: len(members),
		Score:         best.Score,
	}

	seen := make(map[int]struct{})
	for _, m := range members {
		mt.SourceTableIndices = append(mt.SourceTableIndices, m.TableIndex)
		for r := m.DataStartRowIndex; r < len(m.Table.Rows); r++ {
			mt.Rows = append(mt.Rows, m.Table.Rows[r])
			mt.Origins = append(mt.Origins, RowOrigin{TableIndex: m.TableIndex, RowIndex: r})
		}
		for _, n := range m.ItemNumbers {
			seen[n] = struct{}{}
			if mt.FirstItem == 0 || n < mt.FirstItem {
				mt.FirstItem = n
			}
			if n > mt.LastItem {
				mt.LastItem = n
			}
		}
	}

	if len(seen) > 0 {
		mt.NumericItemRows = mt.LastItem - mt.FirstItem + 1
		mt.ReliableNumbering = len(seen) == mt.NumericItemRows
		mt.NumberingGaps = len(seen) < mt.NumericItemRows
	}

	return mt
}

// MergeGroups merges every group and orders the results by score descending,
// breaking ties by first source table index so output is deterministic.
func MergeGroups(groups []*Group) []*MergedTable {
	merged := make([]*MergedTable, 0, len(groups))
	for _, g := range groups {
		merged = append(merged, Merge(g))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].SourceTableIndices[0] < merged[j].SourceTableIndices[0]
	})
	return merged
}
