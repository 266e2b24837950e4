package pipeline

import "sync/atomic"

// OverflowPolicy selects what happens when a bounded queue is full and a new
// data record arrives.
type OverflowPolicy int

const (
	// OverflowBlock applies backpressure: producers wait for space.
	OverflowBlock OverflowPolicy = iota

	// OverflowDropNewest rejects the incoming record.
	OverflowDropNewest

	// OverflowDropOldest evicts the oldest queued record to make room.
	OverflowDropOldest
)

// String returns a human-readable representation of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowBlock:
		return "block"
	case OverflowDropNewest:
		return "drop-newest"
	case OverflowDropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// queue is a FIFO mailbox with exactly one consumer and any number of
// producers. A pump goroutine shuttles envelopes from the inlet to the
// outlet through an in-memory buffer, so with capacity <= 0 the queue is
// unbounded and push never blocks for long.
//
// Overflow policies apply to data envelopes only. Control signals are always
// accepted (a dropped flush would strand its waiter forever), though under
// OverflowBlock they queue behind the same backpressure as everything else.
type queue struct {
	capacity int
	policy   OverflowPolicy
	in       chan envelope
	out      chan envelope
	abort    <-chan struct{}
	dropped  int64 // atomic
}

func newQueue(capacity int, policy OverflowPolicy, abort <-chan struct{}) *queue {
	q := &queue{
		capacity: capacity,
		policy:   policy,
		in:       make(chan envelope),
		out:      make(chan envelope),
		abort:    abort,
	}
	go q.pump()
	return q
}

// push hands e to the queue. It blocks only while the pump is busy or, under
// OverflowBlock, while the buffer is full. Reports false when the abort
// signal fired instead.
func (q *queue) push(e envelope, abort <-chan struct{}) bool {
	select {
	case q.in <- e:
		return true
	case <-abort:
		return false
	}
}

// close stops the inlet. The pump drains whatever is buffered, then closes
// the outlet. Must not be called twice.
func (q *queue) close() { close(q.in) }

// Dropped returns the number of data envelopes discarded by the overflow
// policy so far.
func (q *queue) Dropped() int64 { return atomic.LoadInt64(&q.dropped) }

func (q *queue) pump() {
	var buf []envelope
	in := q.in

	for {
		var outCh chan envelope
		var head envelope
		if len(buf) > 0 {
			outCh = q.out
			head = buf[0]
		} else if in == nil {
			close(q.out)
			return
		}

		inCh := in
		if q.capacity > 0 && q.policy == OverflowBlock && len(buf) >= q.capacity {
			inCh = nil // stop accepting; producers block in push
		}

		select {
		case <-q.abort:
			return
		case e, ok := <-inCh:
			if !ok {
				in = nil
				continue
			}
			buf = q.accept(buf, e)
		case outCh <- head:
			buf = buf[1:]
		}
	}
}

// accept appends e to buf, applying the overflow policy when the queue is
// bounded and full. Control envelopes bypass the policy.
func (q *queue) accept(buf []envelope, e envelope) []envelope {
	if q.capacity <= 0 || len(buf) < q.capacity || e.kind != kindData {
		return append(buf, e)
	}

	switch q.policy {
	case OverflowDropNewest:
		atomic.AddInt64(&q.dropped, 1)
		return buf
	case OverflowDropOldest:
		for i := range buf {
			if buf[i].kind == kindData {
				buf = append(buf[:i], buf[i+1:]...)
				atomic.AddInt64(&q.dropped, 1)
				break
			}
		}
		return append(buf, e)
	default:
		// OverflowBlock admits control envelopes past capacity; data never
		// reaches here because the inlet is disabled while full.
		return append(buf, e)
	}
}
