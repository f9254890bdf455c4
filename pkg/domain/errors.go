package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCursor is returned when a page cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid page cursor")
	// ErrNotFound marks a missing table or document in the demo store.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an inserted document reuses an id.
	ErrDuplicateID = errors.New("document id already exists")
	// ErrInvalidQuery marks list parameters the demo store rejects.
	ErrInvalidQuery = errors.New("invalid list query")
)

// NetworkError wraps anything returned by an injected fetch, search,
// fetch-one or edit function.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// WrapNetwork wraps err as a NetworkError for op. Nil stays nil and an
// existing NetworkError is not wrapped twice.
func WrapNetwork(op string, err error) error {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}

// IsNetworkError reports whether err came from an injected function.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
