package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/logship-labs/logship/internal/cliconfig"
	"github.com/logship-labs/logship/internal/tail"
	logAdapter "github.com/logship-labs/logship/pkg/log"
	"github.com/logship-labs/logship/pkg/logship"
)

const helpDescription = `
Stream log lines to a remote collector without blocking the producer.

Lines are read from stdin (or a followed file), encoded as JSON records and
shipped over a persistent TCP connection. Collector outages are absorbed by
an in-memory queue and retried with exponential backoff; Ctrl-C aborts
immediately, normal EOF flushes everything before exiting.

Configure via flags, LOGSHIP_* environment variables, or a TOML config file
(default: $HOME/.logship/config.toml). With --watch-config, edits to the
config file switch the collector address mid-stream.
`

var exampleUsage = strings.TrimSpace(`
  journalctl -f | logship --addr collector.example.com:9010
  logship --addr 10.0.0.5:9010 --follow /var/log/app.log --queue-size 10000 --overflow drop-oldest
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "logship",
		Short:   "Stream log lines to a remote collector without blocking the producer",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file first (default $HOME/.logship/config.toml), then
			// env, with explicitly set flags winning over both.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if cfg.Source == "" {
				cfg.Source = hostname()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			policy, err := cliconfig.ParseOverflow(cfg.Overflow)
			if err != nil {
				return err
			}

			zerologAdapter := logAdapter.NewZerologAdapterWithLogger(log)

			opts := []logship.Option{
				logship.WithLogger(zerologAdapter),
				logship.WithBackoff(cfg.BackoffInitial, cfg.BackoffMax),
				logship.WithDialTimeout(cfg.DialTimeout),
				logship.WithShutdownTimeout(cfg.ShutdownTimeout),
				// Ctrl-C / SIGTERM aborts without draining the backlog.
				logship.WithSignalAbort(),
			}
			if cfg.QueueSize > 0 {
				opts = append(opts, logship.WithQueue(cfg.QueueSize, policy))
			}

			client, err := logship.New(cfg.Addr, opts...)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				<-client.Aborted()
				cancel()
			}()

			if cfg.WatchConfig && cfgFile != "" {
				var addrMu sync.Mutex
				curAddr := cfg.Addr
				watcher := cliconfig.NewWatcher(cfgFile, cfg, changed, zerologAdapter,
					func(next cliconfig.Config) {
						addrMu.Lock()
						defer addrMu.Unlock()
						if next.Addr == curAddr {
							return
						}
						if err := client.SetAddress(next.Addr); err != nil {
							log.Warn().Err(err).Msg("address switch rejected")
							return
						}
						curAddr = next.Addr
					})
				go watcher.Run(ctx)
			}

			if err := ship(ctx, client, cfg); err != nil {
				return err
			}

			// Normal teardown: drain everything submitted so far.
			if err := client.Close(); err != nil {
				if errors.Is(err, logship.ErrAborted) {
					log.Warn().Msg("aborted: queued records were not delivered")
					return nil
				}
				return fmt.Errorf("close client: %w", err)
			}

			stats := client.Stats()
			log.Info().
				Int64("submitted", stats.Submitted).
				Int64("sent", stats.Sent).
				Int64("dropped", stats.Dropped).
				Msg("done")
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.logship/config.toml)")
	root.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "collector address (host:port)")
	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "source label for shipped records (default: hostname)")
	root.Flags().StringVar(&cfg.Level, "level", cfg.Level, "severity label for shipped lines")
	root.Flags().StringVar(&cfg.Follow, "follow", cfg.Follow, "follow this file instead of reading stdin")
	root.Flags().BoolVar(&cfg.FromStart, "from-start", cfg.FromStart, "replay the followed file from the beginning")

	root.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "bound the delivery queues (0 = unbounded)")
	root.Flags().StringVar(&cfg.Overflow, "overflow", cfg.Overflow, "bounded-queue policy: block, drop-newest or drop-oldest")

	root.Flags().DurationVar(&cfg.BackoffInitial, "backoff-initial", cfg.BackoffInitial, "initial retry delay after a failed send")
	root.Flags().DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "retry delay cap")
	root.Flags().DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "connection attempt timeout")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "how long to wait for the pipeline on exit")

	root.Flags().BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig, "reload the config file on change and apply address switches")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("logship")
		os.Exit(1)
	}
}

// ship pumps lines from the configured source into the client until EOF,
// abort, or a source error.
func ship(ctx context.Context, client *logship.Client, cfg cliconfig.Config) error {
	lines := make(chan string, 256)
	errCh := make(chan error, 1)

	if cfg.Follow != "" {
		var tOpts []tail.Option
		if cfg.FromStart {
			tOpts = append(tOpts, tail.FromStart())
		}
		t := tail.New(cfg.Follow, tOpts...)
		go func() { errCh <- t.Run(ctx, lines) }()
	} else {
		go func() {
			defer close(lines)
			sc := bufio.NewScanner(os.Stdin)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					return
				}
			}
			errCh <- sc.Err()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// The tailer always reports a result after closing the
				// channel; the stdin reader only on a read error.
				if cfg.Follow != "" {
					if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				}
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			rec := logship.Record{
				Level:   cfg.Level,
				Source:  cfg.Source,
				Message: line,
			}
			if err := client.Submit(rec); err != nil {
				// Closed by a concurrent abort; stop shipping.
				return nil
			}
		}
	}
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
