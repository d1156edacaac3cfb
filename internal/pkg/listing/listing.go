// Package listing holds the search and filter predicates shared by the list
// endpoints and the portal client.
package listing

import (
	"net/url"
	"strings"
)

// All disables a status or kind filter.
const All = "ALL"

// Record is anything that can be matched by Criteria.
type Record interface {
	// SearchFields returns the values matched by the free-text term.
	SearchFields() []string
	// StatusValue returns the record status, or "" when it has none.
	StatusValue() string
	// KindValue returns the record kind, or "" when it has none.
	KindValue() string
}

// Criteria is a free-text term plus optional status and kind filters.
type Criteria struct {
	Search string
	Status string
	Kind   string
}

// FromQuery reads the q, status and type query parameters.
func FromQuery(values url.Values) Criteria {
	return Criteria{
		Search: values.Get("q"),
		Status: values.Get("status"),
		Kind:   values.Get("type"),
	}
}

// Query encodes c as URL query parameters, omitting empty filters.
func (c Criteria) Query() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(c.Search); s != "" {
		v.Set("q", s)
	}
	if Active(c.Status) {
		v.Set("status", c.Status)
	}
	if Active(c.Kind) {
		v.Set("type", c.Kind)
	}
	return v
}

// IsZero reports whether c filters nothing.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && !Active(c.Status) && !Active(c.Kind)
}

// Match reports whether r passes every filter in c. A status or kind filter
// does not apply to a record that has no such attribute.
func (c Criteria) Match(r Record) bool {
	if !applies(c.Status, r.StatusValue()) || !applies(c.Kind, r.KindValue()) {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(c.Search))
	if term == "" {
		return true
	}
	for _, field := range r.SearchFields() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply returns the records matching c, preserving order. The input slice
// is never modified.
func Apply[T Record](records []T, c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func applies(filter, value string) bool {
	if !Active(filter) || value == "" {
		return true
	}
	return strings.EqualFold(value, filter)
}

// Active reports whether a status or kind filter restricts anything.
func Active(filter string) bool {
	f := strings.TrimSpace(filter)
	return f != "" && !strings.EqualFold(f, All)
}
