// Package querystring turns query parameters into the canonical string used
// for cache keys and URL sync, and parses such strings back.
package querystring

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Encode serializes params with keys sorted alphabetically, so equal params
// always give the same string. Slices become repeated keys, maps and
// structs are JSON encoded and nil values are skipped.
func Encode(params domain.Params) string {
	values := url.Values{}
	for key, value := range params {
		for _, s := range encodeValue(value) {
			values.Add(key, s)
		}
	}
	// url.Values.Encode sorts by key
	return values.Encode()
}

func encodeValue(value any) []string {
	if value == nil {
		return nil
	}
	if s, err := cast.ToStringE(value); err == nil {
		return []string{s}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return encodeValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, encodeValue(rv.Index(i).Interface())...)
		}
		return out
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return nil
		}
		return []string{string(raw)}
	}
}

// Parsed is a query string split into the recognized sort and paging keys
// and the remaining filters.
type Parsed struct {
	SortBy        string
	SortAscending *bool
	Page          int
	PageSize      int
	PageCursor    string
	Filters       domain.Params
}

// Parse reads a query string, with or without its leading "?". Repeated
// keys become []string filters; unparseable numbers are ignored.
func Parse(query string) (*Parsed, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return nil, err
	}

	parsed := &Parsed{Filters: domain.Params{}}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		first := vals[0]
		switch key {
		case domain.ParamSortBy:
			parsed.SortBy = first
		case domain.ParamSortAscending:
			if b, err := cast.ToBoolE(first); err == nil {
				parsed.SortAscending = &b
			}
		case domain.ParamPage:
			if n, err := cast.ToIntE(first); err == nil {
				parsed.Page = n
			}
		case domain.ParamPageSize:
			if n, err := cast.ToIntE(first); err == nil {
				parsed.PageSize = n
			}
		case domain.ParamPageCursor:
			parsed.PageCursor = first
		default:
			if len(vals) == 1 {
				parsed.Filters[key] = first
			} else {
				parsed.Filters[key] = vals
			}
		}
	}
	return parsed, nil
}

// Params folds the parsed query back into a flat parameter map.
func (p *Parsed) Params() domain.Params {
	out := p.Filters.Clone()
	if p.SortBy != "" {
		out[domain.ParamSortBy] = p.SortBy
	}
	if p.SortAscending != nil {
		out[domain.ParamSortAscending] = *p.SortAscending
	}
	if p.Page > 0 {
		out[domain.ParamPage] = p.Page
	}
	if p.PageSize > 0 {
		out[domain.ParamPageSize] = p.PageSize
	}
	if p.PageCursor != "" {
		out[domain.ParamPageCursor] = p.PageCursor
	}
	return out
}
