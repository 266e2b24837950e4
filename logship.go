// Package logship re-exports the client API from pkg/logship so the module
// root imports cleanly as github.com/logship-labs/logship.
//
// Example usage:
//
//	c, err := logship.New("collector.example.com:9010")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//	c.Submit(logship.Record{Message: "hello"})
package logship

import (
	client "github.com/logship-labs/logship/pkg/logship"
)

// Core types of the client API. See pkg/logship for the full surface,
// including options and overflow policies.
type (
	// Client is the public handle to the delivery pipeline.
	Client = client.Client

	// Record is one application log record handed to the pipeline.
	Record = client.Record

	// Option configures optional behavior of a Client.
	Option = client.Option

	// Stats are cumulative pipeline counters.
	Stats = client.Stats
)

// New creates a client streaming to the collector at addr.
func New(addr string, opts ...Option) (*Client, error) {
	return client.New(addr, opts...)
}
