package sim

import "github.com/addrummond/heap"

// eventItem is the type stored in the underlying generic heap. It wraps
// an Event so ordering can be expressed via the Cmp method the heap
// package's Orderable constraint requires, without making Event itself
// carry heap-internal bookkeeping.
type eventItem struct {
	ev Event
}

// Cmp orders events by (timestamp, variant priority, seq) per spec §4.1.
func (a *eventItem) Cmp(b *eventItem) int {
	ea, eb := a.ev, b.ev
	if ea.Timestamp() != eb.Timestamp() {
		if ea.Timestamp() < eb.Timestamp() {
			return -1
		}
		return 1
	}
	pa, pb := eventKindPriority[ea.Kind()], eventKindPriority[eb.Kind()]
	if pa != pb {
		if pa < pb {
			return -1
		}
		return 1
	}
	if ea.Seq() != eb.Seq() {
		if ea.Seq() < eb.Seq() {
			return -1
		}
		return 1
	}
	return 0
}

// EventQueue is a min-heap of Events ordered per spec §4.1, backed by
// github.com/addrummond/heap's generic Orderable heap (the same one
// petenewcomb-psg-go's own discrete-event estimator uses in
// internal/sim/estimate.go) instead of hand-rolling container/heap's
// five-method interface.
type EventQueue struct {
	h    heap.Heap[eventItem, heap.Min]
	next uint64
	size int
}

// NewEventQueue returns an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push enqueues ev, assigning it the next sequence number.
func (q *EventQueue) Push(ev Event) {
	q.next++
	ev.setSeq(q.next)
	heap.PushOrderable(&q.h, eventItem{ev: ev})
	q.size++
}

// Pop removes and returns the event with the smallest ordering key.
// Returns false if the queue is empty.
func (q *EventQueue) Pop() (Event, bool) {
	item, ok := heap.PopOrderable(&q.h)
	if !ok {
		return nil, false
	}
	q.size--
	return item.ev, true
}

// Peek returns the next event without removing it. Returns false if the
// queue is empty.
func (q *EventQueue) Peek() (Event, bool) {
	item, ok := heap.Peek(&q.h)
	if !ok {
		return nil, false
	}
	return item.ev, true
}

// Len returns the number of events currently queued.
func (q *EventQueue) Len() int { return q.size }

// Empty reports whether the queue has no pending events.
func (q *EventQueue) Empty() bool { return q.size == 0 }
