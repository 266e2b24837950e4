package ports

// Conn is the outbound connection owned by the sender stage.
//
// Implementations are not required to be thread-safe: the sender stage is the
// only goroutine that ever touches the connection.
type Conn interface {
	// Send transmits one packet. It is a best-effort single attempt: no
	// internal retry. Implementations may dial lazily on first use.
	Send(packet []byte) error

	// Flush forces any internally buffered bytes out to the transport.
	Flush() error

	// SetAddr updates the destination for subsequent sends. It must not
	// connect eagerly; reconnection happens on the next Send.
	SetAddr(addr string)

	// Close releases the underlying socket, if any.
	Close() error
}
