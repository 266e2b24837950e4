package logship

import (
	"os"
	"syscall"
	"time"

	"github.com/logship-labs/logship/internal/domain"
	"github.com/logship-labs/logship/internal/pipeline"
	"github.com/logship-labs/logship/internal/ports"
	"github.com/logship-labs/logship/pkg/codec"
	"github.com/logship-labs/logship/pkg/log"
)

// Re-export the internal types that appear in the public API.
type (
	// Record is one application log record handed to the pipeline.
	Record = domain.Record

	// Encoder turns a record into its transmittable byte form.
	Encoder = ports.Encoder

	// Conn is the connection capability the sender stage writes to.
	Conn = ports.Conn

	// OverflowPolicy selects bounded-queue behavior when full.
	OverflowPolicy = pipeline.OverflowPolicy

	// State is the client lifecycle state.
	State = pipeline.State

	// Stats are cumulative pipeline counters.
	Stats = pipeline.Stats
)

// Overflow policies for WithQueue.
const (
	OverflowBlock      = pipeline.OverflowBlock
	OverflowDropNewest = pipeline.OverflowDropNewest
	OverflowDropOldest = pipeline.OverflowDropOldest
)

// Lifecycle states reported by Status.
const (
	StateStopped  = pipeline.StateStopped
	StateStarting = pipeline.StateStarting
	StateRunning  = pipeline.StateRunning
	StateStopping = pipeline.StateStopping
	StateAborted  = pipeline.StateAborted
)

// DefaultShutdownTimeout bounds how long Close waits for the stage workers
// after the drain completes.
const DefaultShutdownTimeout = 30 * time.Second

// Option configures optional behavior of a Client.
type Option func(*options)

// options holds the optional configuration for a Client instance.
type options struct {
	logger          log.Logger
	encoder         ports.Encoder
	conn            ports.Conn
	queueCapacity   int
	overflow        OverflowPolicy
	backoffInitial  time.Duration
	backoffMax      time.Duration
	dialTimeout     time.Duration
	shutdownTimeout time.Duration
	abortSignals    []os.Signal
}

func defaultOptions() options {
	return options{
		logger:          log.NewNoopLogger(),
		encoder:         codec.NewJSONEncoder(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEncoder replaces the default JSON encoder. Encode must be pure.
func WithEncoder(enc Encoder) Option {
	return func(o *options) { o.encoder = enc }
}

// WithConn injects a connection implementation, bypassing the built-in TCP
// transport. Intended for tests and alternative transports.
func WithConn(conn Conn) Option {
	return func(o *options) { o.conn = conn }
}

// WithQueue bounds the internal queues at capacity records each and selects
// the overflow policy. Without this option the queues are unbounded.
func WithQueue(capacity int, policy OverflowPolicy) Option {
	return func(o *options) {
		o.queueCapacity = capacity
		o.overflow = policy
	}
}

// WithBackoff overrides the retry schedule for failed sends. The delay
// starts at initial, doubles per consecutive failure, and never exceeds max.
func WithBackoff(initial, max time.Duration) Option {
	return func(o *options) {
		o.backoffInitial = initial
		o.backoffMax = max
	}
}

// WithDialTimeout bounds each connection attempt of the built-in transport.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithShutdownTimeout overrides DefaultShutdownTimeout for Close.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = d }
}

// WithSignalAbort registers a process signal hook that aborts the client
// without draining, mirroring an operator-requested cancellation. With no
// arguments it watches SIGINT and SIGTERM.
func WithSignalAbort(sigs ...os.Signal) Option {
	return func(o *options) {
		if len(sigs) == 0 {
			sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
		}
		o.abortSignals = sigs
	}
}
