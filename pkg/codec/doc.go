// Package codec provides the default wire encoding for log records.
//
// The pipeline treats encoding as an injected, pure transformation; this
// package supplies the JSON implementation used when nothing else is
// configured. Custom encodings plug in through the client's WithEncoder
// option.
package codec
