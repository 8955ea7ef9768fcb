package pipeline

import (
	"context"
	"sync"
)

// Op transforms a handle. It returns either the same handle, modified in place, or a new one
// that replaces it for the next entry.
type Op[H any] func(ctx context.Context, handle H) (H, error)

// Entry is one labelled operation of a queue. The label is informational only.
type Entry[H any] struct {
	Label string
	Op    Op[H]
}

// Queue is an ordered list of entries under construction.
type Queue[H any] struct {
	mu      sync.Mutex
	entries []Entry[H]
	sealed  bool
}

// NewQueue creates an empty queue.
func NewQueue[H any]() *Queue[H] {
	return &Queue[H]{}
}

// Add appends a single entry to the tail of the queue.
func (q *Queue[H]) Add(label string, op Op[H]) error {
	return q.Push(Entry[H]{Label: label, Op: op})
}

// Push appends entries to the tail of the queue, in the given order.
func (q *Queue[H]) Push(entries ...Entry[H]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.check(entries); err != nil {
		return err
	}
	q.entries = append(q.entries, entries...)

	return nil
}

// Prepend inserts entries at the front of the queue. The entries keep their relative order:
// entries[0] becomes the new front.
func (q *Queue[H]) Prepend(entries ...Entry[H]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.check(entries); err != nil {
		return err
	}
	merged := make([]Entry[H], 0, len(entries)+len(q.entries))
	merged = append(merged, entries...)
	q.entries = append(merged, q.entries...)

	return nil
}

func (q *Queue[H]) check(entries []Entry[H]) error {
	if q.sealed {
		return ErrQueueSealed
	}
	for _, e := range entries {
		if e.Op == nil {
			return ErrOpMustBeSet
		}
	}

	return nil
}

// Len returns the number of entries.
func (q *Queue[H]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.entries)
}

// Labels returns the entry labels front to back.
func (q *Queue[H]) Labels() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	labels := make([]string, len(q.entries))
	for i, e := range q.entries {
		labels[i] = e.Label
	}

	return labels
}

// Entries returns a copy of the entries front to back.
func (q *Queue[H]) Entries() []Entry[H] {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]Entry[H](nil), q.entries...)
}

// Seal forbids any further change and returns the final entries.
func (q *Queue[H]) Seal() []Entry[H] {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.sealed = true

	return append([]Entry[H](nil), q.entries...)
}

// Sealed reports whether the queue can still be changed.
func (q *Queue[H]) Sealed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.sealed
}
