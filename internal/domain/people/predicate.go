package people

import "strings"

// Predicate is a single case-insensitive substring filter against the record
// store. Pattern is wildcard-wrapped and lowercased; predicates are always
// conjunctive (AND) when more than one field is populated.
type Predicate struct {
	Field   string
	Pattern string
}

// fieldOrder fixes the emission order of predicates so query plans are
// deterministic and reproducible across runs.
var fieldOrder = []struct {
	field string
	value func(Terms) string
}{
	{"email", func(t Terms) string { return t.Email }},
	{"name", func(t Terms) string { return t.Name }},
	{"company", func(t Terms) string { return t.Company }},
	{"title", func(t Terms) string { return t.Title }},
	{"location", func(t Terms) string { return t.Location }},
	{"phone", func(t Terms) string { return t.Phone }},
}

// BuildPredicates maps extracted terms onto an ordered predicate list, one
// per populated field. All predicates are substring-match, never exact-match.
// The result count bound is the caller's concern; the builder is agnostic to
// pagination.
func BuildPredicates(t Terms) []Predicate {
	var preds []Predicate
	for _, f := range fieldOrder {
		if v := f.value(t); v != "" {
			preds = append(preds, Predicate{
				Field:   f.field,
				Pattern: "%" + strings.ToLower(v) + "%",
			})
		}
	}
	return preds
}
