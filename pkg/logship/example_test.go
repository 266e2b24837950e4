package logship_test

import (
	"fmt"

	"github.com/logship-labs/logship/pkg/logship"
)

// discardConn accepts every packet without a network. Real applications use
// the built-in TCP transport and skip WithConn entirely.
type discardConn struct{ sent int }

func (c *discardConn) Send(packet []byte) error { c.sent++; return nil }
func (c *discardConn) Flush() error             { return nil }
func (c *discardConn) SetAddr(addr string)      {}
func (c *discardConn) Close() error             { return nil }

// ExampleNew demonstrates how to embed the client in an application.
func ExampleNew() {
	conn := &discardConn{}

	c, err := logship.New("collector.example.com:9010", logship.WithConn(conn))
	if err != nil {
		fmt.Printf("failed to create client: %v\n", err)
		return
	}

	// Submit never blocks on the network; delivery happens in the background.
	_ = c.Submit(logship.Record{Level: "info", Message: "service started"})
	_ = c.Submit(logship.Record{Level: "warn", Message: "cache miss rate high"})

	// Close drains everything submitted so far, then stops the pipeline.
	if err := c.Close(); err != nil {
		fmt.Printf("close failed: %v\n", err)
		return
	}

	fmt.Printf("delivered: %d\n", c.Stats().Sent)
	// Output: delivered: 2
}

// ExampleClient_SetAddress shows a mid-stream collector switch. Records
// submitted before the switch still reach the old address.
func ExampleClient_SetAddress() {
	conn := &discardConn{}
	c, _ := logship.New("collector-1.example.com:9010", logship.WithConn(conn))

	_ = c.Submit(logship.Record{Message: "goes to collector-1"})
	_ = c.SetAddress("collector-2.example.com:9010")
	_ = c.Submit(logship.Record{Message: "goes to collector-2"})

	if err := c.Close(); err != nil {
		fmt.Printf("close failed: %v\n", err)
		return
	}
	fmt.Printf("delivered: %d\n", c.Stats().Sent)
	// Output: delivered: 2
}
