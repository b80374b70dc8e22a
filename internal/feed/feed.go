package feed

import "sync"

// Feed is an append-only sequence capped at a fixed capacity. Once the cap is
// exceeded the oldest items are evicted silently.
type Feed[T any] struct {
	mu       sync.RWMutex
	items    []T
	capacity int
}

// New creates an empty feed holding at most capacity items.
func New[T any](capacity int) *Feed[T] {
	if capacity <= 0 {
		panic("feed: capacity must be positive")
	}
	return &Feed[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Append inserts item at the tail, evicting from the head when full.
func (f *Feed[T]) Append(item T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, item)
	if over := len(f.items) - f.capacity; over > 0 {
		n := copy(f.items, f.items[over:])
		var zero T
		for i := n; i < len(f.items); i++ {
			f.items[i] = zero
		}
		f.items = f.items[:n]
	}
}

// Recent returns the last n items, oldest first.
func (f *Feed[T]) Recent(n int) []T {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tail := f.tail(n)
	out := make([]T, len(tail))
	copy(out, tail)
	return out
}

// Reversed returns the last n items, newest first.
func (f *Feed[T]) Reversed(n int) []T {
	f.mu.RLock()
	defer f.mu.RUnlock()

	tail := f.tail(n)
	out := make([]T, len(tail))
	for i, item := range tail {
		out[len(tail)-1-i] = item
	}
	return out
}

// All returns a copy of every retained item, oldest first.
func (f *Feed[T]) All() []T {
	return f.Recent(f.Capacity())
}

// Find returns the first item, in insertion order, for which match is true.
func (f *Feed[T]) Find(match func(T) bool) (T, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, item := range f.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of retained items.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Capacity reports the maximum number of retained items.
func (f *Feed[T]) Capacity() int {
	return f.capacity
}

func (f *Feed[T]) tail(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(f.items) {
		n = len(f.items)
	}
	return f.items[len(f.items)-n:]
}
