// Package tail follows a growing log file and emits complete lines, using
// fsnotify for wakeups with a polling fallback for filesystems that do not
// deliver events reliably.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/logship-labs/logship/pkg/log"
)

// DefaultPollInterval is the fallback wakeup period when no file events
// arrive.
const DefaultPollInterval = 500 * time.Millisecond

// Tailer follows one file. Create with New, then call Run once.
type Tailer struct {
	path      string
	fromStart bool
	poll      time.Duration
	logger    log.Logger
}

// Option configures a Tailer.
type Option func(*Tailer)

// FromStart replays the file from the beginning instead of starting at the
// current end.
func FromStart() Option {
	return func(t *Tailer) { t.fromStart = true }
}

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tailer) { t.poll = d }
}

// WithLogger sets the logger. Defaults to the noop logger.
func WithLogger(logger log.Logger) Option {
	return func(t *Tailer) { t.logger = logger }
}

// New creates a tailer for path.
func New(path string, opts ...Option) *Tailer {
	t := &Tailer{
		path:   path,
		poll:   DefaultPollInterval,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run follows the file and sends complete lines (without the trailing
// newline) to lines until the context is canceled. The channel is closed on
// return. Truncation rewinds to the start of the file; a missing file is
// waited for.
func (t *Tailer) Run(ctx context.Context, lines chan<- string) error {
	defer close(lines)

	f, offset, err := t.open(ctx, !t.fromStart)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so rotation (rename + recreate) is observed too.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		t.logger.Warn("tail: watch failed, falling back to polling",
			log.String("path", t.path), log.Err(err))
	}

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	r := bufio.NewReader(f)
	var partial strings.Builder

	for {
		n, err := t.drain(ctx, r, &partial, lines)
		offset += n
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(t.path) {
				continue
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn("tail: watcher error", log.Err(err))
		case <-ticker.C:
		}

		// Rotation or truncation: reopen from the start.
		if reopened, size := t.stale(offset); reopened {
			_ = f.Close()
			f, offset, err = t.open(ctx, false)
			if err != nil {
				return err
			}
			r.Reset(f)
			partial.Reset()
			t.logger.Info("tail: file rotated, reopened",
				log.String("path", t.path), log.Int64("size", size))
		}
	}
}

// open waits for the file to exist, opens it, and optionally seeks to the
// end. Reopens after rotation always read from the start.
func (t *Tailer) open(ctx context.Context, seekEnd bool) (*os.File, int64, error) {
	for {
		f, err := os.Open(t.path)
		if err == nil {
			var offset int64
			if seekEnd {
				offset, err = f.Seek(0, io.SeekEnd)
				if err != nil {
					_ = f.Close()
					return nil, 0, fmt.Errorf("seek %s: %w", t.path, err)
				}
			}
			return f, offset, nil
		}
		if !os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("open %s: %w", t.path, err)
		}

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(t.poll):
		}
	}
}

// drain reads everything currently available, emitting complete lines and
// stashing any trailing fragment. Returns the number of bytes consumed.
func (t *Tailer) drain(ctx context.Context, r *bufio.Reader, partial *strings.Builder, lines chan<- string) (int64, error) {
	var consumed int64
	for {
		chunk, err := r.ReadString('\n')
		consumed += int64(len(chunk))

		if err == nil {
			line := partial.String() + strings.TrimSuffix(chunk, "\n")
			partial.Reset()
			select {
			case lines <- line:
			case <-ctx.Done():
				return consumed, nil
			}
			continue
		}
		if chunk != "" {
			partial.WriteString(chunk)
		}
		if err == io.EOF {
			return consumed, nil
		}
		return consumed, fmt.Errorf("read %s: %w", t.path, err)
	}
}

// stale reports whether the file on disk no longer matches our read position
// (rotated away or truncated below the current offset).
func (t *Tailer) stale(offset int64) (bool, int64) {
	fi, err := os.Stat(t.path)
	if err != nil {
		return false, 0
	}
	if fi.Size() < offset {
		return true, fi.Size()
	}
	return false, fi.Size()
}
