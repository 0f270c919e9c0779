package model

// History is a bounded FIFO buffer. Appending beyond the cap evicts the oldest entry.
type History[T any] struct {
	items []T
	cap   int
}

// NewHistory creates a History holding at most capacity entries.
// A non-positive capacity is treated as 1.
func NewHistory[T any](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &History[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Append adds v, evicting the oldest entry when full. Returns the evicted entry, if any.
func (h *History[T]) Append(v T) (evicted T, ok bool) {
	if len(h.items) == h.cap {
		evicted, ok = h.items[0], true
		copy(h.items, h.items[1:])
		h.items = h.items[:len(h.items)-1]
	}
	h.items = append(h.items, v)
	return evicted, ok
}

// Len returns the number of stored entries.
func (h *History[T]) Len() int { return len(h.items) }

// Cap returns the maximum number of entries.
func (h *History[T]) Cap() int { return h.cap }

// Items returns a copy of the entries, oldest first.
func (h *History[T]) Items() []T {
	out := make([]T, len(h.items))
	copy(out, h.items)
	return out
}

// Last returns the newest entry.
func (h *History[T]) Last() (T, bool) {
	var zero T
	if len(h.items) == 0 {
		return zero, false
	}
	return h.items[len(h.items)-1], true
}

// Clear drops all entries.
func (h *History[T]) Clear() { h.items = h.items[:0] }
