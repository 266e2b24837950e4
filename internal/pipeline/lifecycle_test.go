package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/logship-labs/logship/internal/domain"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateAborted, "Aborted"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestOverflowPolicy_String(t *testing.T) {
	tests := []struct {
		policy OverflowPolicy
		want   string
	}{
		{OverflowBlock, "block"},
		{OverflowDropNewest, "drop-newest"},
		{OverflowDropOldest, "drop-oldest"},
		{OverflowPolicy(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("OverflowPolicy(%d).String() = %s, want %s", tt.policy, got, tt.want)
		}
	}
}

func TestLifecycle_ValidTransitions(t *testing.T) {
	l := newLifecycle(mockLogger{})

	steps := []State{StateStarting, StateRunning, StateStopping, StateStopped}
	for _, next := range steps {
		if err := l.TransitionTo(next, "test"); err != nil {
			t.Fatalf("TransitionTo(%v) error = %v", next, err)
		}
		if got := l.State(); got != next {
			t.Fatalf("State() = %v, want %v", got, next)
		}
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"stopped to running", StateStopped, StateRunning},
		{"stopped to stopping", StateStopped, StateStopping},
		{"running to starting", StateRunning, StateStarting},
		{"aborted is terminal", StateAborted, StateStarting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLifecycle(mockLogger{})
			l.state = tt.from
			if err := l.TransitionTo(tt.to, "test"); err == nil {
				t.Errorf("TransitionTo(%v -> %v) succeeded", tt.from, tt.to)
			}
		})
	}
}

func TestLifecycle_AbortAllowedWhileRunning(t *testing.T) {
	l := newLifecycle(mockLogger{})
	l.state = StateRunning

	if err := l.TransitionTo(StateAborted, "test"); err != nil {
		t.Fatalf("TransitionTo(StateAborted) error = %v", err)
	}
	if err := l.TransitionTo(StateStarting, "test"); err == nil {
		t.Error("transition out of StateAborted succeeded")
	}
}

func TestLifecycle_WaitWithTimeout(t *testing.T) {
	l := newLifecycle(mockLogger{})

	l.AddWorker()
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.WorkerDone()
	}()

	if err := l.WaitWithTimeout(2 * time.Second); err != nil {
		t.Errorf("WaitWithTimeout() error = %v", err)
	}
}

func TestLifecycle_WaitWithTimeout_Expires(t *testing.T) {
	l := newLifecycle(mockLogger{})

	l.AddWorker() // never finishes
	defer l.WorkerDone()

	err := l.WaitWithTimeout(20 * time.Millisecond)
	if !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() error = %v, want ErrShutdownTimeout", err)
	}
}
