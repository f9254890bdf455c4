package domain

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// MergeMode selects how Assign treats zero values in src.
type MergeMode int

const (
	// MergeOverride copies only the non-empty fields of src.
	MergeOverride MergeMode = iota
	// MergeReplace copies every field of src, empty ones included.
	MergeReplace
)

// Assign merges src into dst and returns the result. When T is a pointer
// to a struct (or a map) the merge happens in place, so holders of dst see
// the new values through the same reference.
func Assign[T any](dst, src T, mode MergeMode) (T, error) {
	opts := []func(*mergo.Config){mergo.WithOverride}
	if mode == MergeReplace {
		opts = append(opts, mergo.WithOverwriteWithEmptyValue)
	}

	dv := reflect.ValueOf(dst)
	sv := reflect.ValueOf(src)
	if !dv.IsValid() || !sv.IsValid() {
		return src, nil
	}

	switch dv.Kind() {
	case reflect.Ptr:
		if dv.IsNil() {
			return src, nil
		}
		if sv.IsNil() || dv.Pointer() == sv.Pointer() {
			return dst, nil
		}
		if dv.Elem().Kind() != reflect.Struct {
			return src, nil
		}
		if err := mergo.Merge(any(dst), any(src), opts...); err != nil {
			return dst, fmt.Errorf("failed to merge entity: %w", err)
		}
		return dst, nil
	case reflect.Map:
		if dv.IsNil() {
			return src, nil
		}
		if sv.IsNil() || dv.Pointer() == sv.Pointer() {
			return dst, nil
		}
		if mode == MergeReplace {
			dv.Clear()
		}
		if err := mergo.Merge(&dst, src, opts...); err != nil {
			return dst, fmt.Errorf("failed to merge entity: %w", err)
		}
		return dst, nil
	case reflect.Struct:
		if err := mergo.Merge(&dst, src, opts...); err != nil {
			return dst, fmt.Errorf("failed to merge entity: %w", err)
		}
		return dst, nil
	default:
		return src, nil
	}
}
