package models

import "strings"

// SearchCriteria is a sparse set of search form values. Empty fields leave
// the corresponding form control untouched.
type SearchCriteria struct {
	Name       string   `json:"name,omitempty" yaml:"name"`
	City       string   `json:"city,omitempty" yaml:"city"`
	PostalCode string   `json:"postal_code,omitempty" yaml:"postal_code"`
	Industries []string `json:"industries,omitempty" yaml:"industries"`
}

func (c SearchCriteria) IsEmpty() bool {
	return c.Name == "" && c.City == "" && c.PostalCode == "" && len(c.Industries) == 0
}

func (c SearchCriteria) String() string {
	if c.IsEmpty() {
		return "<unconstrained>"
	}
	var parts []string
	if c.Name != "" {
		parts = append(parts, "name="+c.Name)
	}
	if c.City != "" {
		parts = append(parts, "city="+c.City)
	}
	if c.PostalCode != "" {
		parts = append(parts, "postal_code="+c.PostalCode)
	}
	if len(c.Industries) > 0 {
		parts = append(parts, "industries="+strings.Join(c.Industries, "|"))
	}
	return strings.Join(parts, " ")
}
