package pipeline

import "time"

// Default retry schedule for failed sends: start small, double per failure,
// never exceed the cap.
const (
	DefaultBackoffInitial = 100 * time.Millisecond
	DefaultBackoffMax     = 3 * time.Second
)

type backoff struct {
	initial time.Duration
	max     time.Duration
	cur     time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max}
}

// Next returns the wait before the following retry: the initial delay after
// the first failure, doubling on each subsequent one, capped at max.
func (b *backoff) Next() time.Duration {
	if b.cur <= 0 {
		b.cur = b.initial
	} else {
		b.cur *= 2
		if b.cur > b.max {
			b.cur = b.max
		}
	}
	return b.cur
}

func (b *backoff) Reset() { b.cur = 0 }
