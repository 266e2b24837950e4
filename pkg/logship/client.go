package logship

import (
	"fmt"
	"sync"
	"time"

	"github.com/logship-labs/logship/internal/domain"
	"github.com/logship-labs/logship/internal/pipeline"
	"github.com/logship-labs/logship/internal/ports"
	"github.com/logship-labs/logship/pkg/log"
	"github.com/logship-labs/logship/pkg/transport"
)

// Sentinel errors returned by the client, checkable with errors.Is.
var (
	// ErrClosed is returned when submitting to a closed or aborted client.
	ErrClosed = domain.ErrClosed

	// ErrAborted is returned by Flush and Close when the pipeline was
	// aborted before the flush barrier was confirmed.
	ErrAborted = domain.ErrAborted

	// ErrInvalidConfig is returned by New for unusable configuration.
	ErrInvalidConfig = domain.ErrInvalidConfig

	// ErrShutdownTimeout is returned when Close gives up waiting for the
	// stage workers.
	ErrShutdownTimeout = domain.ErrShutdownTimeout
)

// Client is the public handle to the delivery pipeline. All methods are safe
// for concurrent use by any number of producer goroutines; the only blocking
// operations exposed are Flush and Close.
type Client struct {
	opts   options
	logger log.Logger
	pipe   *pipeline.Pipeline

	mu     sync.RWMutex
	closed bool

	stopSignals func()
}

// New creates a client streaming to the collector at addr and starts its two
// stage workers. Close or Abort must eventually be called to release them.
func New(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: collector address is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	conn := o.conn
	if conn == nil {
		tOpts := []transport.Option{transport.WithLogger(o.logger)}
		if o.dialTimeout > 0 {
			tOpts = append(tOpts, transport.WithDialTimeout(o.dialTimeout))
		}
		conn = transport.New(addr, tOpts...)
	}

	pipe := pipeline.New(pipeline.Config{
		QueueCapacity:  o.queueCapacity,
		Overflow:       o.overflow,
		BackoffInitial: o.backoffInitial,
		BackoffMax:     o.backoffMax,
	}, o.encoder, conn, o.logger)

	c := &Client{
		opts:   o,
		logger: o.logger,
		pipe:   pipe,
	}

	if err := pipe.Start(); err != nil {
		return nil, err
	}

	if len(o.abortSignals) > 0 {
		c.stopSignals = notifyAbort(c, o.abortSignals)
	}

	return c, nil
}

// Submit enqueues one record for delivery and returns immediately; encoding
// and transmission happen on the pipeline goroutines and per-record outcomes
// are never reported here. The only error is ErrClosed. With a bounded
// queue under OverflowBlock, Submit waits for space instead of dropping.
//
// The record's ownership transfers to the pipeline; do not mutate it (or its
// Fields map) afterward. A zero Time is stamped with the current time.
func (c *Client) Submit(rec Record) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	if !c.pipe.Submit(rec) {
		return ErrClosed
	}
	return nil
}

// SetAddress switches the collector address. The change is ordered with the
// data stream: records submitted before it still go to the old address,
// records submitted after it go to the new one. No eager reconnect happens;
// the next send dials the new target.
func (c *Client) SetAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: collector address is required", ErrInvalidConfig)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if !c.pipe.SetAddr(addr) {
		return ErrClosed
	}
	return nil
}

// Flush blocks until every record submitted strictly before it has been
// handed to the connection's send path. It returns ErrAborted when the
// pipeline was aborted first; delivery is then not guaranteed.
func (c *Client) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return c.pipe.Flush()
}

// Close flushes everything submitted so far, stops both stages, and releases
// the connection. It is the required teardown on every ordinary exit path
// and is idempotent; calls after the first return nil. An abort during the
// drain surfaces as ErrAborted.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.stopSignals != nil {
		c.stopSignals()
	}
	return c.pipe.Close(c.opts.shutdownTimeout)
}

// Abort stops both stages immediately, discarding queued records and
// releasing any blocked producers and flush waiters. Idempotent.
func (c *Client) Abort() {
	c.pipe.Abort()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if c.stopSignals != nil {
		c.stopSignals()
	}
}

// Aborted returns a channel that is closed once the client has been aborted,
// whether by Abort or by a registered interrupt signal. Useful for callers
// that block on other work and need to notice the pipeline going away.
func (c *Client) Aborted() <-chan struct{} { return c.pipe.Aborted() }

// Status returns the pipeline lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Client) Status() State { return c.pipe.State() }

// Stats returns a snapshot of the pipeline counters.
func (c *Client) Stats() Stats { return c.pipe.Stats() }

// compile-time check that the transport satisfies the pipeline's port.
var _ ports.Conn = (*transport.Conn)(nil)
