package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/logship-labs/logship/internal/domain"
	"github.com/logship-labs/logship/pkg/log"
)

// State represents the lifecycle state of the pipeline.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateAborted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// lifecycle manages the state machine for the pipeline and tracks its two
// stage workers. StateAborted is terminal: an aborted pipeline is not
// restartable.
type lifecycle struct {
	mu     sync.RWMutex
	state  State
	wg     sync.WaitGroup
	logger log.Logger
}

func newLifecycle(logger log.Logger) *lifecycle {
	return &lifecycle{state: StateStopped, logger: logger}
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns an error if the transition is not valid.
func (l *lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	valid := false
	switch oldState {
	case StateStopped:
		valid = newState == StateStarting
	case StateStarting:
		valid = newState == StateRunning || newState == StateAborted
	case StateRunning:
		valid = newState == StateStopping || newState == StateAborted
	case StateStopping:
		valid = newState == StateStopped || newState == StateAborted
	case StateAborted:
		valid = false
	}
	if !valid {
		l.mu.Unlock()
		return fmt.Errorf("logship: invalid state transition %s to %s", oldState, newState)
	}

	l.state = newState
	l.mu.Unlock()

	l.logger.Debug("state transition",
		log.String("from", oldState.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)
	return nil
}

// AddWorker increments the worker count.
func (l *lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish with a timeout.
// Returns ErrShutdownTimeout if the timeout expires.
func (l *lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.logger.Warn("shutdown timeout, abandoning workers",
			log.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}
