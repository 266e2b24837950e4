// Package pipeline implements the two-stage delivery pipeline behind the
// logship client.
//
// Submissions flow one direction:
//
//	Client -> encode loop -> send loop -> Conn
//
// Each stage is a single long-lived goroutine consuming one FIFO mailbox of
// tagged envelopes; data records and control signals (set-address, flush,
// shutdown) share the mailbox, which is what preserves end-to-end ordering.
// There is no fan-out and no shared mutable state between stages, so records
// reach the connection in exact submission order.
//
// Abort is the one out-of-band path: a closed channel observed by both loops
// and by blocked producers. Once it fires, nothing further is consumed and
// queued work is abandoned.
package pipeline
