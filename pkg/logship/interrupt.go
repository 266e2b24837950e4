package logship

import (
	"os"
	"os/signal"
	"sync"

	"github.com/logship-labs/logship/pkg/log"
)

// notifyAbort installs the interrupt hook: on any of the given process
// signals, abort the client without draining. The returned stop function
// unregisters the hook and is safe to call more than once.
//
// The hook only injects the abort signal; it never blocks on the pipeline.
func notifyAbort(c *Client, sigs []os.Signal) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			c.logger.Warn("interrupt received, aborting before queued records are sent",
				log.String("signal", sig.String()))
			c.Abort()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
