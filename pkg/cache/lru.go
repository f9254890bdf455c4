package cache

import (
	"container/list"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// queryLRU keeps cached queries in recency order. A capacity <= 0 means
// unbounded. It is not safe for concurrent use; Cache guards it.
type queryLRU[T domain.Entity] struct {
	capacity int
	list     *list.List
	cache    map[string]*list.Element
	onEvict  func(key string)
}

func newQueryLRU[T domain.Entity](capacity int) *queryLRU[T] {
	return &queryLRU[T]{
		capacity: capacity,
		list:     list.New(),
		cache:    make(map[string]*list.Element),
	}
}

func (lru *queryLRU[T]) Get(key string) (*Query[T], bool) {
	if element, exists := lru.cache[key]; exists {
		lru.list.MoveToFront(element)
		return element.Value.(*Query[T]), true
	}
	return nil, false
}

func (lru *queryLRU[T]) Put(key string, query *Query[T]) {
	if element, exists := lru.cache[key]; exists {
		element.Value = query
		lru.list.MoveToFront(element)
		return
	}

	element := lru.list.PushFront(query)
	lru.cache[key] = element

	if lru.capacity > 0 && lru.list.Len() > lru.capacity {
		lru.evictOldest()
	}
}

func (lru *queryLRU[T]) evictOldest() {
	element := lru.list.Back()
	if element != nil {
		query := element.Value.(*Query[T])
		delete(lru.cache, query.Key)
		lru.list.Remove(element)
		if lru.onEvict != nil {
			lru.onEvict(query.Key)
		}
	}
}

func (lru *queryLRU[T]) Clear() {
	lru.list.Init()
	lru.cache = make(map[string]*list.Element)
}

func (lru *queryLRU[T]) Len() int {
	return lru.list.Len()
}
