package ports

import "github.com/logship-labs/logship/internal/domain"

// Encoder turns a log record into its transmittable byte form.
//
// Encode must be a pure transformation: no side effects, no retained
// references to the record. A failed encode drops only that record; the
// pipeline keeps running.
type Encoder interface {
	Encode(rec domain.Record) ([]byte, error)
}

// EncoderFunc adapts a plain function to the Encoder interface.
type EncoderFunc func(rec domain.Record) ([]byte, error)

// Encode calls f(rec).
func (f EncoderFunc) Encode(rec domain.Record) ([]byte, error) { return f(rec) }
