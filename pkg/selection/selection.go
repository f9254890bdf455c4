package selection

import (
	"slices"
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Selection tracks selected entities by identity, independently of the
// data they were picked from.
type Selection[T domain.Entity] struct {
	mu       sync.RWMutex
	selected []T
}

// New creates an empty selection
func New[T domain.Entity]() *Selection[T] {
	return &Selection[T]{}
}

// Selected returns a copy of the selected entities in selection order.
func (s *Selection[T]) Selected() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// IDs projects the selection onto entity ids, preserving order.
func (s *Selection[T]) IDs() []domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]domain.ID, 0, len(s.selected))
	for _, item := range s.selected {
		ids = append(ids, item.GetID())
	}
	return ids
}

// Map indexes the selection by id key.
func (s *Selection[T]) Map() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]T, len(s.selected))
	for _, item := range s.selected {
		m[domain.KeyOf(item.GetID())] = item
	}
	return m
}

func (s *Selection[T]) IsSelected(id domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexOf(s.selected, id) >= 0
}

func (s *Selection[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// Select toggles membership of item.
func (s *Selection[T]) Select(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := domain.IndexOf(s.selected, item.GetID()); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return
	}
	s.selected = append(s.selected, item)
}

// Set replaces the selection wholesale.
func (s *Selection[T]) Set(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = slices.Clone(items)
}

// Add appends item unless it is already selected.
func (s *Selection[T]) Add(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if domain.IndexOf(s.selected, item.GetID()) >= 0 {
		return
	}
	s.selected = append(s.selected, item)
}

// Unshift prepends item unless it is already selected.
func (s *Selection[T]) Unshift(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if domain.IndexOf(s.selected, item.GetID()) >= 0 {
		return
	}
	s.selected = slices.Insert(s.selected, 0, item)
}

// Remove drops item if selected.
func (s *Selection[T]) Remove(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := domain.IndexOf(s.selected, item.GetID()); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	}
}

// MoveItem moves the entity at from to position to.
func (s *Selection[T]) MoveItem(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Move(s.selected, from, to)
}

func (s *Selection[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
