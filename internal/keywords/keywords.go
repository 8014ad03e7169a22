// Package keywords holds the shared header-keyword configuration used by both
// the candidate scorer and the line-item extractor. Keeping one versioned
// table guarantees the two stages never disagree on column roles.
package keywords

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Role identifies what a table column holds.
type Role string

const (
	RoleItemNumber  Role = "item_number"
	RoleDescription Role = "description"
	RoleQuantity    Role = "quantity"
	RoleUnit        Role = "unit"
	RoleSpec        Role = "spec"
	RoleNotes       Role = "notes"
	// RoleRevision marks a revision/approval column. It is never extracted
	// into a line item; it only feeds the scorer's penalty groups.
	RoleRevision Role = "revision"
)

// CoreRoles are the roles that make a table look like a genuine line-item
// grid rather than a two-column key/value block.
var CoreRoles = []Role{RoleItemNumber, RoleDescription, RoleQuantity, RoleUnit}

// DefaultVersion tags the embedded keyword table. Bump when groups change so
// extraction debug output records which vocabulary produced a result.
const DefaultVersion = "2025-07"

// Groups is the keyword vocabulary, one list per concern. Multi-word entries
// match as consecutive words in a normalized header.
type Groups struct {
	Version     string   `yaml:"version"`
	ItemNumber  []string `yaml:"item_number"`
	Description []string `yaml:"description"`
	Quantity    []string `yaml:"quantity"`
	// RoundQuantity columns carry piece counts and take priority over plain
	// quantity columns when both are present in one table.
	RoundQuantity []string `yaml:"round_quantity"`
	// LengthWeight columns carry linear/weight totals and must never be bound
	// to the quantity field.
	LengthWeight []string `yaml:"length_weight"`
	Unit         []string `yaml:"unit"`
	Spec         []string `yaml:"spec"`
	Notes        []string `yaml:"notes"`
	Revision     []string `yaml:"revision"`
	Inspection   []string `yaml:"inspection"`
}

// Default returns the embedded keyword table.
func Default() *Groups {
	return &Groups{
		Version:       DefaultVersion,
		ItemNumber:    []string{"item", "no", "item no", "line no", "sr no", "s no", "sl", "pos"},
		Description:   []string{"description", "desc", "detail", "details", "material", "spec", "specification", "commodity"},
		Quantity:      []string{"qty", "quantity", "pcs", "pieces"},
		RoundQuantity: []string{"round qty", "rounded qty", "round"},
		LengthWeight:  []string{"total", "tot", "length", "weight", "kg", "mtr", "as drawing"},
		Unit:          []string{"unit", "uom", "un", "units"},
		Spec:          []string{"size", "dimension", "dia", "nps", "sch", "rating"},
		Notes:         []string{"note", "notes", "remark", "remarks", "comment", "comments"},
		Revision:      []string{"rev", "revision", "prepared", "checked", "approved", "signed", "issued"},
		Inspection:    []string{"inspection", "witness", "hold", "vendor data", "vdrl", "document list", "data requirement", "itp", "certificate"},
	}
}

// LoadFile reads a YAML override on top of the defaults. Lists present in the
// file replace the embedded ones; omitted lists keep their defaults.
func LoadFile(path string) (*Groups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	g := Default()
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", path, err)
	}
	if g.Version == "" {
		g.Version = DefaultVersion
	}
	return g, nil
}

// Normalize lowercases a header cell, strips punctuation and collapses
// internal whitespace ("Q'ty" -> "qty", "Rev." -> "rev", "Line  No." -> "line no").
func Normalize(cell string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(cell) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '/' || r == '-' || r == '_':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Classify maps one raw header cell to at most one column role.
// Order matters: exclusion and specific groups are checked before broad ones
// so "Item Description" lands on description and "Total Length" on nothing.
func (g *Groups) Classify(header string) (Role, bool) {
	if strings.TrimSpace(header) == "#" {
		return RoleItemNumber, true
	}
	norm := Normalize(header)
	if norm == "" {
		return "", false
	}
	switch {
	case matches(norm, g.LengthWeight) && !matches(norm, g.RoundQuantity):
		return "", false
	case matches(norm, g.RoundQuantity), matches(norm, g.Quantity):
		return RoleQuantity, true
	case matches(norm, g.Unit):
		return RoleUnit, true
	case matches(norm, g.Spec):
		return RoleSpec, true
	case matches(norm, g.Notes):
		return RoleNotes, true
	case matches(norm, g.Description):
		return RoleDescription, true
	case matches(norm, g.ItemNumber):
		return RoleItemNumber, true
	case matches(norm, g.Revision):
		return RoleRevision, true
	}
	return "", false
}

// QuantityPriority ranks quantity-role headers: 2 for piece-count ("round")
// columns, 1 for plain quantity columns, 0 otherwise. The detector keeps the
// highest-priority column when several claim the quantity role.
func (g *Groups) QuantityPriority(header string) int {
	norm := Normalize(header)
	switch {
	case matches(norm, g.RoundQuantity):
		return 2
	case matches(norm, g.LengthWeight):
		return 0
	case matches(norm, g.Quantity):
		return 1
	}
	return 0
}

// MatchesRevision reports whether a header belongs to the revision/approval
// penalty group.
func (g *Groups) MatchesRevision(header string) bool {
	return matches(Normalize(header), g.Revision)
}

// MatchesInspection reports whether a header belongs to the inspection/VDRL
// penalty group.
func (g *Groups) MatchesInspection(header string) bool {
	return matches(Normalize(header), g.Inspection)
}

// IsLengthWeight reports whether a header is a linear/weight total column.
func (g *Groups) IsLengthWeight(header string) bool {
	norm := Normalize(header)
	return matches(norm, g.LengthWeight) && !matches(norm, g.RoundQuantity)
}

// matches reports whether any keyword occurs as a run of consecutive words in
// the normalized header. Word-level matching keeps "no" from firing inside
// "notes".
func matches(norm string, kws []string) bool {
	if norm == "" {
		return false
	}
	words := strings.Fields(norm)
	for _, kw := range kws {
		if hasPhrase(words, strings.Fields(kw)) {
			return true
		}
	}
	return false
}

func hasPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		ok := true
		for j, p := range phrase {
			if words[i+j] != p {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
