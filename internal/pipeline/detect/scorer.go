package detect

import (
	"fmt"
	"strings"

	"github.com/pricerhq/takeoff/internal/keywords"
)

// MinScoreThreshold gates which candidates reach the merge stage. Tables
// below it are treated as non-line-item tables (revision blocks, signature
// matrices, key/value metadata grids).
const MinScoreThreshold = 5.0

const (
	coreRoleBonus      = 1.0
	multiGroupBonus    = 3.0
	numericBaseBonus   = 4.0
	numericPerRowBonus = 0.5
	numericBonusCap    = 10.0

	// The revision and inspection penalties must each outweigh the maximum
	// achievable positive score (core 4.0 + multi 3.0 + numeric cap 10.0), so
	// a matching table can never clear the threshold on incidental columns.
	revisionPenalty   = 25.0
	inspectionPenalty = 25.0

	minHeaderColumns    = 3
	narrowHeaderPenalty = 3.0
	sparsityPenaltyMax  = 4.0

	// sparsitySampleRows bounds how many data rows feed the sparsity signal.
	sparsitySampleRows = 10
)

// Signals are the named flags and counts behind a score.
type Signals struct {
	CoreRoles    int     `json:"core_roles"`
	MultiGroup   bool    `json:"multi_group"`
	NumericRows  int     `json:"numeric_rows"`
	Revision     bool    `json:"revision"`
	Inspection   bool    `json:"inspection"`
	NarrowHeader bool    `json:"narrow_header"`
	Sparsity     float64 `json:"sparsity"`
}

// Score rates a header row plus sampled data rows as a line-item table
// candidate. It is deterministic and side-effect free; every contributing
// term is recorded in reasons so decisions stay auditable.
func Score(kw *keywords.Groups, headers []string, sampleRows [][]string) (float64, Signals, []string) {
	var (
		score   float64
		signals Signals
		reasons []string
	)

	columns := buildColumnMap(kw, headers)
	for _, role := range keywords.CoreRoles {
		if _, ok := columns[role]; ok {
			signals.CoreRoles++
			score += coreRoleBonus
			reasons = append(reasons, fmt.Sprintf("%s_group:%+.1f", role, coreRoleBonus))
		}
	}
	if signals.CoreRoles >= 3 {
		signals.MultiGroup = true
		score += multiGroupBonus
		reasons = append(reasons, fmt.Sprintf("multi_group_bonus:%+.1f", multiGroupBonus))
	}

	signals.NumericRows = countNumericRows(columns, sampleRows)
	if signals.NumericRows >= 1 {
		bonus := numericBaseBonus + numericPerRowBonus*float64(signals.NumericRows)
		if bonus > numericBonusCap {
			bonus = numericBonusCap
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("numeric_items:%+.1f", bonus))
	}

	for _, h := range headers {
		if kw.MatchesRevision(h) {
			signals.Revision = true
		}
		if kw.MatchesInspection(h) {
			signals.Inspection = true
		}
	}
	if signals.Revision {
		score -= revisionPenalty
		reasons = append(reasons, fmt.Sprintf("revision_penalty:%+.1f", -revisionPenalty))
	}
	if signals.Inspection {
		score -= inspectionPenalty
		reasons = append(reasons, fmt.Sprintf("inspection_penalty:%+.1f", -inspectionPenalty))
	}

	if nonEmpty(headers) < minHeaderColumns {
		signals.NarrowHeader = true
		score -= narrowHeaderPenalty
		reasons = append(reasons, fmt.Sprintf("narrow_header:%+.1f", -narrowHeaderPenalty))
	}

	signals.Sparsity = sparsity(sampleRows)
	if signals.Sparsity > 0 {
		penalty := signals.Sparsity * sparsityPenaltyMax
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("sparse_rows:%+.1f", -penalty))
	}

	return score, signals, reasons
}

// countNumericRows counts data rows whose item column (or first column when
// the role is unmapped) parses as a positive integer.
func countNumericRows(columns map[keywords.Role]int, rows [][]string) int {
	col, ok := columns[keywords.RoleItemNumber]
	if !ok {
		col = 0
	}
	count := 0
	for _, row := range rows {
		if col < len(row) {
			if _, ok := parsePositiveInt(row[col]); ok {
				count++
			}
		}
	}
	return count
}

// sparsity returns the fraction of empty cells across the sampled data rows.
func sparsity(rows [][]string) float64 {
	total, empty := 0, 0
	for i, row := range rows {
		if i >= sparsitySampleRows {
			break
		}
		for _, cell := range row {
			total++
			if strings.TrimSpace(cell) == "" {
				empty++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(empty) / float64(total)
}

func nonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
