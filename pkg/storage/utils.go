package storage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// MatchesFilter checks if a document matches every filter. A filter
// matches when the document value contains the expected value,
// case-insensitively. A list of expected values matches if any does.
func MatchesFilter(doc domain.Document, filter map[string]interface{}) bool {
	for field, expectedValue := range filter {
		actualValue, exists := doc[field]
		if !exists {
			return false
		}

		if !ValuesMatch(actualValue, expectedValue) {
			return false
		}
	}
	return true
}

// ValuesMatch reports whether actual contains expected once both are
// rendered as lowercase strings.
func ValuesMatch(actual, expected interface{}) bool {
	switch e := expected.(type) {
	case []string:
		return slices.ContainsFunc(e, func(v string) bool { return ValuesMatch(actual, v) })
	case []interface{}:
		return slices.ContainsFunc(e, func(v interface{}) bool { return ValuesMatch(actual, v) })
	}

	if actual == nil {
		return expected == nil
	}

	return strings.Contains(
		strings.ToLower(cast.ToString(actual)),
		strings.ToLower(cast.ToString(expected)),
	)
}

// MatchesText reports whether any value of the document contains text.
func MatchesText(doc domain.Document, text string) bool {
	for _, value := range doc {
		if value != nil && ValuesMatch(value, text) {
			return true
		}
	}
	return false
}

// ToFloat64 converts numeric types to float64 for comparison. Strings are
// not parsed.
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// CompareValues orders two field values: numerically when both are
// numbers, otherwise as case-insensitive strings.
func CompareValues(a, b interface{}) int {
	if an, ok := ToFloat64(a); ok {
		if bn, ok := ToFloat64(b); ok {
			return cmp.Compare(an, bn)
		}
	}

	as, bs := cast.ToString(a), cast.ToString(b)
	if c := strings.Compare(strings.ToLower(as), strings.ToLower(bs)); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}

// SortDocuments sorts docs in place by field. Equal values keep their
// order. An empty field leaves docs untouched.
func SortDocuments(docs []domain.Document, field string, ascending bool) {
	if field == "" {
		return
	}
	slices.SortStableFunc(docs, func(a, b domain.Document) int {
		c := CompareValues(a[field], b[field])
		if !ascending {
			c = -c
		}
		return c
	})
}
