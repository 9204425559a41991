package services

import (
	"strings"
	"unicode"
)

// MinMatchConfidence is the lowest score a clause needs to be assigned to a product
const MinMatchConfidence = 0.5

// ProductMatcher assigns quantity clauses to product lines by token overlap
type ProductMatcher struct{}

// NewProductMatcher creates a new product matcher
func NewProductMatcher() *ProductMatcher {
	return &ProductMatcher{}
}

// ClauseMatch is the clause chosen for a product
type ClauseMatch struct {
	Index      int            `json:"index"`
	Clause     QuantityClause `json:"clause"`
	Confidence float64        `json:"confidence"`
	Level      string         `json:"level"` // high, medium, low or assumed
}

var matchStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true,
	"for": true, "with": true, "to": true, "in": true, "on": true,
}

var abbreviations = map[string]string{
	"hdd":   "hard drive",
	"ssd":   "solid state drive",
	"mem":   "memory",
	"ram":   "memory",
	"mgmt":  "management",
	"svc":   "service",
	"svcs":  "services",
	"sw":    "software",
	"hw":    "hardware",
	"lic":   "license",
	"cpu":   "processor",
	"cpus":  "processors",
	"proc":  "processor",
	"mon":   "monitor",
	"kb":    "keyboard",
	"nic":   "network card",
	"ups":   "power supply",
	"psu":   "power supply",
	"cat6":  "cable",
	"sfp":   "transceiver",
	"ext":   "external",
	"int":   "internal",
	"std":   "standard",
	"ent":   "enterprise",
	"pro":   "professional",
	"maint": "maintenance",
	"supp":  "support",
}

// MatchAll assigns each product at most one clause. Clauses are consumed in
// product order so two products never share a clause.
func (m *ProductMatcher) MatchAll(products []string, clauses []QuantityClause) []*ClauseMatch {
	matches := make([]*ClauseMatch, len(products))
	used := make([]bool, len(clauses))

	for i, product := range products {
		idx, score := m.bestAvailable(product, clauses, used)
		if idx < 0 {
			continue
		}
		used[idx] = true
		matches[i] = &ClauseMatch{Index: idx, Clause: clauses[idx], Confidence: score, Level: confidenceLevel(score)}
	}

	// A single product and a single quantity clause belong together
	if len(products) == 1 && matches[0] == nil && len(clauses) == 1 && clauses[0].Quantity != "" {
		matches[0] = &ClauseMatch{
			Index:      0,
			Clause:     clauses[0],
			Confidence: m.Score(products[0], clauses[0].RawText),
			Level:      levelAssumed,
		}
	}
	return matches
}

// bestAvailable returns the unused clause that best fits product, or -1 when
// nothing reaches MinMatchConfidence
func (m *ProductMatcher) bestAvailable(product string, clauses []QuantityClause, used []bool) (int, float64) {
	best := -1
	bestScore := 0.0
	for j, clause := range clauses {
		if used[j] {
			continue
		}
		if score := m.Score(product, clause.RawText); score > bestScore {
			best, bestScore = j, score
		}
	}
	if best < 0 || bestScore < MinMatchConfidence {
		return -1, bestScore
	}
	return best, bestScore
}

// Score returns the share of the product's tokens that appear in text
func (m *ProductMatcher) Score(product, text string) float64 {
	want := m.tokens(product)
	if len(want) == 0 {
		return 0
	}
	have := make(map[string]bool)
	for _, t := range m.tokens(text) {
		have[t] = true
	}

	hits := 0
	for _, t := range want {
		if have[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}

// tokens normalizes a name into comparable lowercase tokens
func (m *ProductMatcher) tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if t == "" || matchStopwords[t] || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	for _, f := range fields {
		if full, ok := abbreviations[f]; ok {
			for _, w := range strings.Fields(full) {
				add(singular(w))
			}
			continue
		}
		add(singular(f))
	}
	return out
}

func singular(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 3 && strings.HasSuffix(w, "ss"):
		return w
	case len(w) > 3 && strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

const levelAssumed = "assumed"

// confidenceLevel labels a match score for display
func confidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence >= 0.7:
		return "medium"
	case confidence >= MinMatchConfidence:
		return "low"
	default:
		return "none"
	}
}
