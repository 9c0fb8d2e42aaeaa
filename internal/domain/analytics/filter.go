package analytics

import "strings"

// Matcher filters records by a free-text query over configured string fields
// combined with exact-value constraints. A record matches the text portion if
// any single-valued field, or any element of a multi-valued field, contains
// the query as a case-insensitive substring. Equality constraints are ANDed
// with the text match. An empty query leaves only the equality constraints
// in effect.
type Matcher[T any] struct {
	TextFields  []func(T) string
	MultiFields []func(T) []string
	EqualFields map[string]func(T) string
}

// Match reports whether rec satisfies the query and all equality constraints.
// Constraint entries with an empty value are ignored; a constraint on a field
// the matcher does not know cannot be satisfied.
func (m Matcher[T]) Match(rec T, query string, equals map[string]string) bool {
	for key, want := range equals {
		if want == "" {
			continue
		}
		get, ok := m.EqualFields[key]
		if !ok || get(rec) != want {
			return false
		}
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, get := range m.TextFields {
		if strings.Contains(strings.ToLower(get(rec)), query) {
			return true
		}
	}
	for _, get := range m.MultiFields {
		for _, v := range get(rec) {
			if strings.Contains(strings.ToLower(v), query) {
				return true
			}
		}
	}
	return false
}

// Filter returns the records matching the query and equality constraints,
// preserving input order.
func Filter[T any](m Matcher[T], recs []T, query string, equals map[string]string) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if m.Match(rec, query, equals) {
			out = append(out, rec)
		}
	}
	return out
}
