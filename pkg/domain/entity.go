package domain

import (
	"github.com/spf13/cast"
)

// ID identifies an entity. String and integer identifiers are both accepted.
type ID = any

// Entity is any record that can take part in a collection.
type Entity interface {
	GetID() ID
}

// KeyOf returns the canonical string key for an ID, so that "1" and 1
// address the same entry.
func KeyOf(id ID) string {
	if id == nil {
		return ""
	}
	key, err := cast.ToStringE(id)
	if err != nil {
		return ""
	}
	return key
}

// IndexOf returns the position of the entity with the given id, or -1.
func IndexOf[T Entity](items []T, id ID) int {
	key := KeyOf(id)
	for i, item := range items {
		if KeyOf(item.GetID()) == key {
			return i
		}
	}
	return -1
}

// Move relocates the element at from to position to, shifting the
// elements between them. Out of range indexes leave items untouched.
func Move[T any](items []T, from, to int) bool {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return false
	}
	if from == to {
		return true
	}
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
	return true
}
