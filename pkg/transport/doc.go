// Package transport provides the outbound TCP connection the sender stage
// writes packets to.
//
// A [Conn] owns one socket to the currently configured collector address.
// Dialing is lazy: the first Send after construction, after a failure, or
// after an address change establishes the connection. Send is a best-effort
// single attempt; retry policy lives in the pipeline, not here.
//
// Conn is not safe for concurrent use. The sender stage is its sole owner.
package transport
