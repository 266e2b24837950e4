package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/logship-labs/logship/pkg/log"
)

// Defaults for dialing and writing. Zero write timeout disables deadlines.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// State describes the connection's relationship to the collector.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateRetrying
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateRetrying:
		return "Retrying"
	default:
		return "Unknown"
	}
}

// DialFunc opens a socket to addr. The default dials TCP with a timeout.
type DialFunc func(addr string) (net.Conn, error)

// Conn is a lazily dialed, buffered TCP connection to a single collector.
// Each packet is framed as a 4-byte big-endian length prefix followed by the
// payload.
type Conn struct {
	addr         string
	dial         DialFunc
	writeTimeout time.Duration
	logger       log.Logger

	sock  net.Conn
	w     *bufio.Writer
	state State
}

// Option configures optional behavior of a Conn.
type Option func(*Conn)

// WithDialer replaces the dial function. Useful for tests and for non-TCP
// transports that still speak the same framing.
func WithDialer(dial DialFunc) Option {
	return func(c *Conn) { c.dial = dial }
}

// WithDialTimeout sets the timeout used by the default TCP dialer.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Conn) {
		c.dial = func(addr string) (net.Conn, error) {
			return net.DialTimeout("tcp", addr, d)
		}
	}
}

// WithWriteTimeout bounds each write to the socket. Zero disables deadlines.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Conn) { c.writeTimeout = d }
}

// WithLogger sets the logger. Defaults to the noop logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Conn) { c.logger = logger }
}

// New creates a connection targeting addr. No dialing happens until the
// first Send.
func New(addr string, opts ...Option) *Conn {
	c := &Conn{
		addr:         addr,
		writeTimeout: DefaultWriteTimeout,
		logger:       log.NewNoopLogger(),
		state:        StateDisconnected,
	}
	c.dial = func(a string) (net.Conn, error) {
		return net.DialTimeout("tcp", a, DefaultDialTimeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Addr returns the current destination address.
func (c *Conn) Addr() string { return c.addr }

// State returns the connection state.
func (c *Conn) State() State { return c.state }

// SetAddr updates the destination for subsequent sends. Buffered bytes are
// flushed best-effort, then the current socket is dropped; the next Send
// dials the new address.
func (c *Conn) SetAddr(addr string) {
	if addr == c.addr {
		return
	}
	if c.w != nil {
		_ = c.w.Flush()
	}
	c.addr = addr
	c.drop()
	c.state = StateDisconnected
}

// Send transmits one packet: a single attempt, dialing first if there is no
// live socket. On any failure the socket is dropped so the next attempt
// redials.
func (c *Conn) Send(packet []byte) error {
	if c.sock == nil {
		if err := c.connect(); err != nil {
			c.state = StateRetrying
			return err
		}
	}

	if c.writeTimeout > 0 {
		_ = c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(packet)))
	if _, err := c.w.Write(hdr[:]); err != nil {
		c.fail()
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := c.w.Write(packet); err != nil {
		c.fail()
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// Flush forces buffered bytes out to the socket.
func (c *Conn) Flush() error {
	if c.w == nil {
		return nil
	}
	if c.writeTimeout > 0 {
		_ = c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := c.w.Flush(); err != nil {
		c.fail()
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Close flushes best-effort and releases the socket.
func (c *Conn) Close() error {
	if c.w != nil {
		_ = c.w.Flush()
	}
	c.drop()
	c.state = StateDisconnected
	return nil
}

func (c *Conn) connect() error {
	sock, err := c.dial(c.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.addr, err)
	}
	c.sock = sock
	c.w = bufio.NewWriter(sock)
	c.state = StateConnected
	c.logger.Info("connected", log.String("addr", c.addr))
	return nil
}

// fail drops the socket after a write error and marks the connection as
// retrying so the next Send redials.
func (c *Conn) fail() {
	c.drop()
	c.state = StateRetrying
}

func (c *Conn) drop() {
	if c.sock != nil {
		_ = c.sock.Close()
	}
	c.sock = nil
	c.w = nil
}
