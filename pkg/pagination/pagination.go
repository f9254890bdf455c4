// Package pagination provides the paging state machines of a collection:
// page-number based Offset paging and opaque-token based Cursor paging.
//
// Both keep an optional total count, expose the params they contribute to
// a request and fire an OnChange callback after every successful
// navigation so the owner can refetch.
package pagination

import "fmt"

const (
	// DefaultPage is the first page.
	DefaultPage = 1
	// DefaultPageSize is used when no page size is configured.
	DefaultPageSize = 20
)

// Kind selects which paging strategy contributes to a collection's
// query parameters.
type Kind int

const (
	None Kind = iota
	KindOffset
	KindCursor
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case KindOffset:
		return "offset"
	case KindCursor:
		return "cursor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "none":
		return None, nil
	case "offset", "page":
		return KindOffset, nil
	case "cursor":
		return KindCursor, nil
	default:
		return None, fmt.Errorf("unknown pagination kind %q", s)
	}
}
