// Package logship provides an asynchronous client for streaming log records
// to a remote collector over a persistent TCP connection.
//
// Records are encoded and transmitted on two background goroutines so that
// [Client.Submit] never blocks the producing goroutine on network I/O. The
// client tolerates collector outages by retrying with exponential backoff,
// supports switching the destination address mid-stream, and distinguishes
// graceful teardown (drain everything, then stop) from abort (stop now, drop
// the backlog).
//
// # Basic Usage
//
//	client, err := logship.New("collector.example.com:9010")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.Submit(logship.Record{Level: "info", Message: "service started"})
//
//	// Block until everything submitted so far has reached the network layer.
//	if err := client.Flush(); err != nil {
//	    log.Printf("flush: %v", err)
//	}
//
// # Ordering and the flush barrier
//
// A single client delivers records to the collector in exact submission
// order. Flush is a barrier: it returns only once every record submitted
// strictly before it has been handed to the connection's send path. When the
// pipeline is aborted mid-flush, Flush returns [ErrAborted] instead; that is
// the only way delivery uncertainty is ever surfaced.
//
// # Shutdown vs. abort
//
// [Client.Close] flushes and then stops the pipeline; use it on every normal
// exit path. [Client.Abort] (or a signal registered via [WithSignalAbort])
// stops both stages immediately and abandons queued records.
//
// # Queueing
//
// By default the internal queues are unbounded, trading memory for the
// guarantee that producers are never slowed down. Use [WithQueue] to bound
// them with an explicit overflow policy (block, drop-newest, drop-oldest).
//
// # Dependency Injection
//
// For testing, inject custom implementations of external dependencies:
//
//	client, err := logship.New(addr,
//	    logship.WithConn(fakeConn),
//	    logship.WithEncoder(myEncoder),
//	    logship.WithLogger(customLogger),
//	)
package logship
