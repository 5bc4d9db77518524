package policy

import "strings"

// Institution describes the partner college whose students must register
// with their institutional email address. All matching is done on
// lowercased, trimmed input so the two predicates stay deterministic.
type Institution struct {
	Name       string
	Aliases    []string
	Substrings []string

	Domain      string
	Departments []string
}

// MatchesCollege reports whether a free-text college field identifies the
// institution: exact official name, a short alias, or containment of every
// identifying substring together.
func (inst Institution) MatchesCollege(college string) bool {
	c := Normalize(college)

	if c == "" {
		return false
	}

	if c == Normalize(inst.Name) {
		return true
	}

	for _, alias := range inst.Aliases {
		if c == Normalize(alias) {
			return true
		}
	}

	if len(inst.Substrings) == 0 {
		return false
	}

	for _, sub := range inst.Substrings {
		if !strings.Contains(c, Normalize(sub)) {
			return false
		}
	}

	return true
}

// MatchesEmail reports whether an address belongs to the institution:
// either the primary domain or one of the department sub-domains under it.
func (inst Institution) MatchesEmail(email string) bool {
	e := Normalize(email)

	if e == "" || inst.Domain == "" {
		return false
	}

	if strings.HasSuffix(e, "@"+inst.Domain) {
		return true
	}

	for _, dept := range inst.Departments {
		if strings.HasSuffix(e, "@"+dept+"."+inst.Domain) {
			return true
		}
	}

	return false
}

// Normalize lowercases and trims a field the way every policy check
// expects it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
