package pipeline

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/logship-labs/logship/internal/domain"
	"github.com/logship-labs/logship/internal/ports"
	"github.com/logship-labs/logship/pkg/log"
)

// Config holds pipeline tuning parameters.
type Config struct {
	// QueueCapacity bounds each stage mailbox. Zero or negative means
	// unbounded, which matches the historical behavior: no backpressure on
	// producers, memory grows with the backlog.
	QueueCapacity int

	// Overflow selects the policy applied when a bounded mailbox is full.
	Overflow OverflowPolicy

	// BackoffInitial and BackoffMax shape the retry schedule for failed
	// sends. Defaults: DefaultBackoffInitial and DefaultBackoffMax.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (c *Config) setDefaults() {
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = DefaultBackoffInitial
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = DefaultBackoffMax
	}
}

// Stats are cumulative pipeline counters. Safe to read at any time.
type Stats struct {
	Submitted    int64 // records accepted by Submit
	Encoded      int64 // records successfully encoded
	EncodeErrors int64 // records dropped because encoding failed
	Sent         int64 // packets handed to the connection successfully
	SendRetries  int64 // failed send attempts that were retried
	Flushes      int64 // flush barriers honored
	Dropped      int64 // records discarded by the overflow policy
}

// Pipeline wires the encode and send loops together. It is created by the
// client and runs until a graceful shutdown or an abort.
type Pipeline struct {
	cfg    Config
	enc    ports.Encoder
	conn   ports.Conn
	logger log.Logger

	msgs    *queue // client -> encode loop
	packets *queue // encode loop -> send loop

	abort     chan struct{}
	abortOnce sync.Once

	life *lifecycle

	submitted    int64
	encoded      int64
	encodeErrors int64
	sent         int64
	sendRetries  int64
	flushes      int64
}

// New creates a pipeline. Call Start to spawn the stage workers.
func New(cfg Config, enc ports.Encoder, conn ports.Conn, logger log.Logger) *Pipeline {
	cfg.setDefaults()
	abort := make(chan struct{})
	return &Pipeline{
		cfg:     cfg,
		enc:     enc,
		conn:    conn,
		logger:  logger,
		msgs:    newQueue(cfg.QueueCapacity, cfg.Overflow, abort),
		packets: newQueue(cfg.QueueCapacity, cfg.Overflow, abort),
		abort:   abort,
		life:    newLifecycle(logger),
	}
}

// Start spawns the encode and send loops. It must be called exactly once.
func (p *Pipeline) Start() error {
	if err := p.life.TransitionTo(StateStarting, "start requested"); err != nil {
		return err
	}

	p.life.AddWorker()
	go p.encodeLoop()

	p.life.AddWorker()
	go p.sendLoop()

	return p.life.TransitionTo(StateRunning, "workers started")
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State { return p.life.State() }

// Aborted exposes the abort signal; it is closed once Abort has been called.
func (p *Pipeline) Aborted() <-chan struct{} { return p.abort }

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Submitted:    atomic.LoadInt64(&p.submitted),
		Encoded:      atomic.LoadInt64(&p.encoded),
		EncodeErrors: atomic.LoadInt64(&p.encodeErrors),
		Sent:         atomic.LoadInt64(&p.sent),
		SendRetries:  atomic.LoadInt64(&p.sendRetries),
		Flushes:      atomic.LoadInt64(&p.flushes),
		Dropped:      p.msgs.Dropped() + p.packets.Dropped(),
	}
}

// Submit enqueues one record for delivery. Reports false when the pipeline
// has been aborted and the record was not accepted.
func (p *Pipeline) Submit(rec domain.Record) bool {
	if !p.msgs.push(envelope{kind: kindData, rec: rec}, p.abort) {
		return false
	}
	atomic.AddInt64(&p.submitted, 1)
	return true
}

// SetAddr enqueues an address change. It takes effect for every record
// submitted after it, never for ones already in flight.
func (p *Pipeline) SetAddr(addr string) bool {
	return p.msgs.push(envelope{kind: kindSetAddr, addr: addr}, p.abort)
}

// Flush enqueues a barrier and blocks until every record submitted before it
// has been handed to the connection's send path, or until the pipeline is
// aborted. In the abort case it returns ErrAborted after logging a warning:
// delivery of the earlier records is not guaranteed.
func (p *Pipeline) Flush() error {
	ack := make(chan struct{})
	if !p.msgs.push(envelope{kind: kindFlush, ack: ack}, p.abort) {
		p.logger.Warn("flush skipped: pipeline aborted")
		return domain.ErrAborted
	}

	select {
	case <-ack:
		return nil
	case <-p.abort:
		// The barrier may have been honored just as the abort fired.
		select {
		case <-ack:
			return nil
		default:
		}
		p.logger.Warn("flush incomplete: pipeline aborted, delivery not confirmed")
		return domain.ErrAborted
	}
}

// Abort asks both stages to stop immediately, discarding queued work and
// releasing any blocked producers and flush waiters. Idempotent.
func (p *Pipeline) Abort() {
	p.abortOnce.Do(func() {
		p.logger.Info("abort requested, abandoning queued work")
		close(p.abort)
		_ = p.life.TransitionTo(StateAborted, "abort requested")
	})
}

// Close drains and stops the pipeline: flush everything submitted so far,
// then stop both stages. An abort arriving at any point short-circuits the
// drain; Close then returns ErrAborted like Flush does.
func (p *Pipeline) Close(timeout time.Duration) error {
	if err := p.Flush(); err != nil {
		if errors.Is(err, domain.ErrAborted) {
			_ = p.life.WaitWithTimeout(timeout)
		}
		return err
	}

	_ = p.life.TransitionTo(StateStopping, "close requested")

	if !p.msgs.push(envelope{kind: kindShutdown}, p.abort) {
		return domain.ErrAborted
	}
	if err := p.life.WaitWithTimeout(timeout); err != nil {
		return err
	}
	if p.life.State() == StateStopping {
		p.msgs.close()
		_ = p.life.TransitionTo(StateStopped, "pipeline drained")
	}
	return nil
}

// encodeLoop is the first stage: it turns records into packets and forwards
// control signals downstream unchanged. A record that fails to encode is
// dropped with an error log; one bad record must not halt the pipeline.
func (p *Pipeline) encodeLoop() {
	defer p.life.WorkerDone()
	defer p.packets.close()

	for {
		select {
		case <-p.abort:
			return
		case e, ok := <-p.msgs.out:
			if !ok {
				return
			}
			switch e.kind {
			case kindData:
				payload, err := p.enc.Encode(e.rec)
				if err != nil {
					atomic.AddInt64(&p.encodeErrors, 1)
					p.logger.Error("encode failed, dropping record", log.Err(err))
					continue
				}
				atomic.AddInt64(&p.encoded, 1)
				if !p.packets.push(envelope{kind: kindData, payload: payload}, p.abort) {
					return
				}
			case kindShutdown:
				p.packets.push(e, p.abort)
				return
			default:
				if !p.packets.push(e, p.abort) {
					return
				}
			}
		}
	}
}

// sendLoop is the second stage: it owns the connection, delivers packets with
// retry, applies address changes, and acknowledges flush barriers.
func (p *Pipeline) sendLoop() {
	defer p.life.WorkerDone()
	defer p.conn.Close()

	back := newBackoff(p.cfg.BackoffInitial, p.cfg.BackoffMax)

	for {
		select {
		case <-p.abort:
			return
		case e, ok := <-p.packets.out:
			if !ok {
				return
			}
			switch e.kind {
			case kindData:
				if !p.sendWithRetry(e.payload, back) {
					return
				}
			case kindSetAddr:
				p.logger.Info("switching destination", log.String("addr", e.addr))
				p.conn.SetAddr(e.addr)
			case kindFlush:
				if err := p.conn.Flush(); err != nil {
					p.logger.Warn("connection flush failed", log.Err(err))
				}
				atomic.AddInt64(&p.flushes, 1)
				close(e.ack)
			case kindShutdown:
				return
			}
		}
	}
}

// sendWithRetry delivers one packet, retrying with exponential backoff until
// it succeeds or the pipeline aborts. Reports false when the abort preempted
// delivery; the packet is abandoned in that case.
//
// Repeated identical failures are logged once to avoid flooding.
func (p *Pipeline) sendWithRetry(packet []byte, back *backoff) bool {
	err := p.conn.Send(packet)
	if err == nil {
		atomic.AddInt64(&p.sent, 1)
		back.Reset()
		return true
	}

	p.logger.Warn("send failed, retrying", log.Err(err))
	lastMsg := err.Error()

	for {
		select {
		case <-p.abort:
			return false
		case <-time.After(back.Next()):
			atomic.AddInt64(&p.sendRetries, 1)
			err := p.conn.Send(packet)
			if err == nil {
				atomic.AddInt64(&p.sent, 1)
				back.Reset()
				return true
			}
			if msg := err.Error(); msg != lastMsg {
				p.logger.Warn("send failed, retrying", log.Err(err))
				lastMsg = msg
			}
		}
	}
}
