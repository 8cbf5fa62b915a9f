package containers

import "slices"

// ObjectQueue is the ordered list of objects an object pass draws. Items
// are told apart by the key they map to, never compared directly.
//
// Add keeps set semantics (an object already present is not added twice)
// while AddRange appends as-is and may introduce duplicates.
type ObjectQueue[T any, K comparable] struct {
	items []T
	key   func(T) K
}

// NewObjectQueue returns a queue whose items are their own key.
func NewObjectQueue[T comparable]() *ObjectQueue[T, T] {
	return NewKeyedObjectQueue(func(item T) T { return item })
}

// NewKeyedObjectQueue returns a queue identifying items by key(item).
func NewKeyedObjectQueue[T any, K comparable](key func(T) K) *ObjectQueue[T, K] {
	return &ObjectQueue[T, K]{key: key}
}

func (q *ObjectQueue[T, K]) Add(item T, clearFirst bool) {
	if clearFirst {
		q.Clear()
	}
	if q.Contains(item) {
		return
	}
	q.items = append(q.items, item)
}

func (q *ObjectQueue[T, K]) AddRange(items []T, clearFirst bool) {
	if clearFirst {
		q.Clear()
	}
	q.items = append(q.items, items...)
}

// Remove deletes the first occurrence of item. Returns false if absent.
func (q *ObjectQueue[T, K]) Remove(item T) bool {
	if i := q.index(item); i >= 0 {
		q.items = slices.Delete(q.items, i, i+1)
		return true
	}
	return false
}

func (q *ObjectQueue[T, K]) Contains(item T) bool {
	return q.index(item) >= 0
}

func (q *ObjectQueue[T, K]) index(item T) int {
	k := q.key(item)
	return slices.IndexFunc(q.items, func(it T) bool { return q.key(it) == k })
}

// Clear empties the queue, keeping its backing storage.
func (q *ObjectQueue[T, K]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}

// Prune drops, in place, every item for which keep returns false and
// reports how many were dropped.
func (q *ObjectQueue[T, K]) Prune(keep func(T) bool) int {
	n := 0
	for _, it := range q.items {
		if keep(it) {
			q.items[n] = it
			n++
		}
	}
	dropped := len(q.items) - n
	clear(q.items[n:])
	q.items = q.items[:n]
	return dropped
}

func (q *ObjectQueue[T, K]) Len() int {
	return len(q.items)
}

// Items returns the live backing slice; callers must not retain it across mutations.
func (q *ObjectQueue[T, K]) Items() []T {
	return q.items
}
