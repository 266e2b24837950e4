package pipeline

import (
	"testing"
	"time"
)

func TestBackoff_DoublesAndCaps(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 3*time.Second)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3 * time.Second,
		3 * time.Second,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("Next() #%d = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoff_ResetRestartsSchedule(t *testing.T) {
	b := newBackoff(50*time.Millisecond, time.Second)

	b.Next()
	b.Next()
	b.Next()
	b.Reset()

	if got := b.Next(); got != 50*time.Millisecond {
		t.Errorf("Next() after Reset = %v, want 50ms", got)
	}
}

func TestBackoff_Defaults(t *testing.T) {
	if DefaultBackoffInitial != 100*time.Millisecond {
		t.Errorf("DefaultBackoffInitial = %v, want 100ms", DefaultBackoffInitial)
	}
	if DefaultBackoffMax != 3*time.Second {
		t.Errorf("DefaultBackoffMax = %v, want 3s", DefaultBackoffMax)
	}
}
