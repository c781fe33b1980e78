package domain

import "strings"

// MatchFilters narrows who a waiting client is willing to be paired with.
// An empty field is a wildcard.
type MatchFilters struct {
	Country string `json:"country,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

// Admits reports whether a candidate's profile satisfies the filters.
func (f MatchFilters) Admits(p *Profile) bool {
	if p == nil {
		return f == (MatchFilters{})
	}
	if f.Country != "" && !strings.EqualFold(f.Country, p.Country) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(f.Gender, p.Gender) {
		return false
	}
	return true
}
