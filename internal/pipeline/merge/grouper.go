// Package merge decides which surviving candidates are fragments of one
// logical table split across OCR page boundaries, and concatenates each group
// back into a single ordered table.
package merge

import (
	"sort"

	"github.com/pricerhq/takeoff/internal/keywords"
	"github.com/pricerhq/takeoff/internal/pipeline/detect"
)

// columnCountTolerance allows OCR to drop or invent one column between
// fragments of the same logical table.
const columnCountTolerance = 1

// Group is an ordered set of candidates judged to be fragments of the same
// logical table.
type Group struct {
	Members []*detect.Candidate
}

// GroupCandidates partitions eligible candidates into groups of related
// fragments. The relation is transitive; groups and their members are ordered
// by source position (tableIndex), which also breaks merge ambiguities
// deterministically. The second return value reports whether two compatible
// fragments carried overlapping item-number sequences (ambiguous renumbering);
// such fragments are kept in separate groups and the document is flagged for
// review instead of guessing.
func GroupCandidates(candidates []*detect.Candidate) ([]*Group, bool) {
	ordered := make([]*detect.Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TableIndex < ordered[j].TableIndex
	})

	parent := make([]int, len(ordered))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	renumbered := false
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			if !compatibleSignatures(a, b) {
				continue
			}
			if overlappingNumbers(a, b) {
				renumbered = true
				continue
			}
			if related(ordered, i, j) {
				union(i, j)
			}
		}
	}

	byRoot := make(map[int][]*detect.Candidate)
	var roots []int
	for i, c := range ordered {
		r := find(i)
		if _, seen := byRoot[r]; !seen {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], c)
	}
	sort.Ints(roots)

	groups := make([]*Group, 0, len(roots))
	for _, r := range roots {
		groups = append(groups, &Group{Members: byRoot[r]})
	}
	return groups, renumbered
}

// related reports whether two candidates (i < j in source order) are
// fragments of the same logical table: compatible column signatures plus
// either contiguous item numbering or, when neither side has reliable
// numbers, adjacency in source order.
func related(ordered []*detect.Candidate, i, j int) bool {
	a, b := ordered[i], ordered[j]
	if !compatibleSignatures(a, b) {
		return false
	}
	if a.LastItem() > 0 && b.FirstItem() > 0 {
		return a.LastItem()+1 == b.FirstItem()
	}
	if a.NumericItemRows == 0 && b.NumericItemRows == 0 {
		return adjacentInSource(ordered, i, j)
	}
	return false
}

// compatibleSignatures checks that the two candidates describe the same kind
// of table: core role sets in a subset relation and column counts within
// tolerance.
func compatibleSignatures(a, b *detect.Candidate) bool {
	diff := a.Table.ColumnCount - b.Table.ColumnCount
	if diff < -columnCountTolerance || diff > columnCountTolerance {
		return false
	}
	return coreSubset(a, b) || coreSubset(b, a)
}

// coreSubset reports whether every core role mapped in a is also mapped in b.
func coreSubset(a, b *detect.Candidate) bool {
	for _, role := range keywords.CoreRoles {
		if _, ok := a.Columns[role]; !ok {
			continue
		}
		if _, ok := b.Columns[role]; !ok {
			return false
		}
	}
	return true
}

// adjacentInSource reports whether no other surviving candidate sits between
// the two in source order. Rejected tables (headers, narrative blocks)
// between fragments do not break adjacency.
func adjacentInSource(ordered []*detect.Candidate, i, j int) bool {
	lo, hi := ordered[i].TableIndex, ordered[j].TableIndex
	if lo > hi {
		lo, hi = hi, lo
	}
	for k, c := range ordered {
		if k == i || k == j {
			continue
		}
		if c.TableIndex > lo && c.TableIndex < hi {
			return false
		}
	}
	return true
}

// overlappingNumbers reports whether both candidates carry numeric item
// sequences that claim overlapping ranges (e.g. both start at 1).
func overlappingNumbers(a, b *detect.Candidate) bool {
	if a.NumericItemRows == 0 || b.NumericItemRows == 0 {
		return false
	}
	return a.FirstItem() <= b.LastItem() && b.FirstItem() <= a.LastItem()
}
