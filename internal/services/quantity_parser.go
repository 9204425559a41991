package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

// QuantityParser splits free-text quantity details into per-product clauses
type QuantityParser struct {
	thousandsPattern  *regexp.Regexp
	separatorPattern  *regexp.Regexp
	andPattern        *regexp.Regexp
	leadingPattern    *regexp.Regexp
	unitPattern       *regexp.Regexp
	timesPattern      *regexp.Regexp
	standalonePattern *regexp.Regexp
	spacePattern      *regexp.Regexp
}

// QuantityClause is one quantity statement found in the details text
type QuantityClause struct {
	RawText  string `json:"raw_text"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Subject  string `json:"subject"`
}

// Describe renders the clause as an identified quantity, e.g. "500 units"
func (c QuantityClause) Describe() string {
	if c.Quantity == "" {
		return pricing.NotNumericallySpecified
	}
	unit := c.Unit
	if unit == "" {
		unit = "units"
	}
	return c.Quantity + " " + unit
}

// Count unit normalization map
var countUnits = map[string]string{
	"unit":     "units",
	"units":    "units",
	"u":        "units",
	"pc":       "pieces",
	"pcs":      "pieces",
	"piece":    "pieces",
	"pieces":   "pieces",
	"ea":       "each",
	"each":     "each",
	"stick":    "sticks",
	"sticks":   "sticks",
	"box":      "boxes",
	"boxes":    "boxes",
	"bx":       "boxes",
	"case":     "cases",
	"cases":    "cases",
	"pack":     "packs",
	"packs":    "packs",
	"pk":       "packs",
	"pkg":      "packages",
	"package":  "packages",
	"packages": "packages",
	"set":      "sets",
	"sets":     "sets",
	"kit":      "kits",
	"kits":     "kits",
	"roll":     "rolls",
	"rolls":    "rolls",
	"pallet":   "pallets",
	"pallets":  "pallets",
	"license":  "licenses",
	"licenses": "licenses",
	"licence":  "licenses",
	"licences": "licenses",
	"seat":     "seats",
	"seats":    "seats",
	"user":     "users",
	"users":    "users",
	"hr":       "hours",
	"hrs":      "hours",
	"hour":     "hours",
	"hours":    "hours",
	"day":      "days",
	"days":     "days",
	"month":    "months",
	"months":   "months",
	"year":     "years",
	"years":    "years",
	"drive":    "drives",
	"drives":   "drives",
	"device":   "devices",
	"devices":  "devices",
	"lot":      "lots",
	"lots":     "lots",
}

// filler words dropped from a clause subject
var subjectFillers = map[string]bool{
	"of": true, "x": true, "qty": true, "quantity": true, "for": true, "the": true,
}

// NewQuantityParser creates a new parser instance
func NewQuantityParser() *QuantityParser {
	units := unitAlternation()
	return &QuantityParser{
		// 1,000 -> 1000 so commas can separate clauses
		thousandsPattern: regexp.MustCompile(`(\d),(\d{3})\b`),

		separatorPattern: regexp.MustCompile(`[,;\n]+`),

		// "and" / "plus" only separate clauses when a number follows
		andPattern: regexp.MustCompile(`(?i)\s+(?:and|plus|&)\s+`),

		// Quantity at start: "500 ...", "qty: 20 ..."
		leadingPattern: regexp.MustCompile(`(?i)^\s*(?:qty\.?:?\s*|quantity:?\s*)?(\d+(?:\.\d+)?)\b`),

		// Number directly followed by a count unit: "... 40 licenses"
		unitPattern: regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(` + units + `)\b`),

		// Multiplier forms: "x 12", "12x"
		timesPattern: regexp.MustCompile(`(?i)(?:\bx\s*(\d+)\b|\b(\d+)\s*x\b)`),

		// Any number not glued to letters ("2TB" is skipped)
		standalonePattern: regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`),

		spacePattern: regexp.MustCompile(`\s+`),
	}
}

func unitAlternation() string {
	keys := make([]string, 0, len(countUnits))
	for k := range countUnits {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	// longer alternatives first so "units" wins over "u"
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// Parse splits details into clauses. Clauses without any text are skipped.
func (p *QuantityParser) Parse(details string) []QuantityClause {
	normalized := details
	for {
		next := p.thousandsPattern.ReplaceAllString(normalized, "$1$2")
		if next == normalized {
			break
		}
		normalized = next
	}

	var clauses []QuantityClause
	for _, part := range p.separatorPattern.Split(normalized, -1) {
		for _, piece := range p.splitOnConjunctions(part) {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			clauses = append(clauses, p.parseClause(piece))
		}
	}
	return clauses
}

// splitOnConjunctions splits "500 drives and 20 licenses" but keeps
// "Cisco switches and routers" whole.
func (p *QuantityParser) splitOnConjunctions(part string) []string {
	locs := p.andPattern.FindAllStringIndex(part, -1)
	if len(locs) == 0 {
		return []string{part}
	}

	var pieces []string
	start := 0
	for _, loc := range locs {
		rest := part[loc[1]:]
		if !p.leadingPattern.MatchString(rest) {
			continue
		}
		pieces = append(pieces, part[start:loc[0]])
		start = loc[1]
	}
	return append(pieces, part[start:])
}

// parseClause parses a single clause into structured data
func (p *QuantityParser) parseClause(text string) QuantityClause {
	clause := QuantityClause{RawText: text}

	// Step 1: locate the quantity
	var qtyStart, qtyEnd int
	switch {
	case p.leadingPattern.MatchString(text):
		m := p.leadingPattern.FindStringSubmatchIndex(text)
		qtyStart, qtyEnd = m[2], m[3]
	case p.unitPattern.MatchString(text):
		m := p.unitPattern.FindStringSubmatchIndex(text)
		qtyStart, qtyEnd = m[2], m[3]
	case p.timesPattern.MatchString(text):
		m := p.timesPattern.FindStringSubmatchIndex(text)
		if m[2] >= 0 {
			qtyStart, qtyEnd = m[2], m[3]
		} else {
			qtyStart, qtyEnd = m[4], m[5]
		}
	case p.standalonePattern.MatchString(text):
		m := p.standalonePattern.FindStringSubmatchIndex(text)
		qtyStart, qtyEnd = m[2], m[3]
	default:
		clause.Subject = p.cleanSubject(text)
		return clause
	}
	clause.Quantity = text[qtyStart:qtyEnd]

	// Step 2: unit right after the number, else the last word of the clause
	remaining := text[:qtyStart] + " " + text[qtyEnd:]
	after := strings.Fields(text[qtyEnd:])
	if len(after) > 0 {
		if unit, ok := countUnits[strings.ToLower(after[0])]; ok {
			clause.Unit = unit
			remaining = text[:qtyStart] + " " + strings.TrimSpace(text[qtyEnd:])[len(after[0]):]
		}
	}
	if clause.Unit == "" {
		words := strings.Fields(remaining)
		if len(words) > 0 {
			last := strings.Trim(strings.ToLower(words[len(words)-1]), ".")
			if unit, ok := countUnits[last]; ok {
				clause.Unit = unit
				remaining = strings.Join(words[:len(words)-1], " ")
			}
		}
	}

	// Step 3: clean up subject
	clause.Subject = p.cleanSubject(remaining)
	return clause
}

// cleanSubject drops filler words and punctuation around the description
func (p *QuantityParser) cleanSubject(s string) string {
	var kept []string
	for _, w := range strings.Fields(s) {
		if subjectFillers[strings.ToLower(strings.Trim(w, ":.-"))] {
			continue
		}
		kept = append(kept, w)
	}
	s = strings.Join(kept, " ")
	s = strings.TrimRight(strings.TrimSpace(s), ".,;:-_")
	return strings.TrimSpace(p.spacePattern.ReplaceAllString(s, " "))
}
