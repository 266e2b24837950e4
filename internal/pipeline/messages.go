package pipeline

import "github.com/logship-labs/logship/internal/domain"

// kind tags the variants of the envelope type flowing through the mailboxes.
type kind int

const (
	// kindData is a log record (client leg) or its encoded packet (sender leg).
	kindData kind = iota

	// kindSetAddr switches the destination for all sends after it.
	kindSetAddr

	// kindFlush is the barrier: everything enqueued before it must have been
	// handed to the connection before the ack fires.
	kindFlush

	// kindShutdown asks a stage to stop after everything queued ahead of it
	// has been processed. It is the graceful counterpart to abort.
	kindShutdown
)

// envelope is the tagged message type both stage mailboxes carry.
// For kindData, rec is set on the submit leg and payload on the sender leg;
// control envelopes are forwarded between stages unchanged.
type envelope struct {
	kind    kind
	rec     domain.Record
	payload []byte
	addr    string
	ack     chan struct{} // kindFlush only; closed when the barrier is honored
}
