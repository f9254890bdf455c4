package domain

import "maps"

// Recognized query parameter keys. Everything else is a filter.
const (
	ParamSortBy        = "sortBy"
	ParamSortAscending = "sortAscending"
	ParamPage          = "page"
	ParamPageSize      = "pageSize"
	ParamPageCursor    = "pageCursor"
)

// ReservedParams lists the keys that are split from filters when a query
// string is parsed.
var ReservedParams = []string{
	ParamSortBy,
	ParamSortAscending,
	ParamPage,
	ParamPageSize,
	ParamPageCursor,
}

// IsReserved reports whether key is one of the non-filter parameters.
func IsReserved(key string) bool {
	for _, k := range ReservedParams {
		if k == key {
			return true
		}
	}
	return false
}

// Params is the flat mapping of filters, sort and paging state sent to
// the fetch and search functions.
type Params map[string]any

// Clone returns a shallow copy. A nil Params clones to an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Merge copies every key of others into p, later maps winning.
func (p Params) Merge(others ...Params) Params {
	for _, o := range others {
		maps.Copy(p, o)
	}
	return p
}

// Filters returns the params without the reserved sort/paging keys.
func (p Params) Filters() Params {
	out := make(Params, len(p))
	for k, v := range p {
		if !IsReserved(k) {
			out[k] = v
		}
	}
	return out
}

// Updates carries a partial entity for edit calls.
type Updates map[string]any
