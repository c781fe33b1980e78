// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxDisplayNameLen = 36

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

// Profile holds the attributes a client volunteers about itself.
// The coordinator never interprets these beyond match predicates.
type Profile struct {
	Name    string `json:"name"`
	Age     int    `json:"age,omitempty"`
	Country string `json:"country,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

// NewProfile is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewProfile(name string) (*Profile, error) {
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrNameTooLong
	}
	return &Profile{Name: name}, nil
}

func (p *Profile) SetName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrNameTooLong
	}
	p.Name = name
	return nil
}
