// Package cliconfig holds the configuration surface of the logship CLI:
// defaults, validation, TOML file loading, LOGSHIP_* environment overrides,
// and the file watcher behind --watch-config. Precedence is flags over
// environment over file over defaults, tracked via the changed-flags map.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/logship-labs/logship/internal/pipeline"
)

// Config holds the configuration for the logship CLI.
type Config struct {
	// Addr is the collector address (host:port).
	Addr string

	// Source labels every shipped record; defaults to the hostname.
	Source string

	// Level is the severity label applied to shipped lines.
	Level string

	// Follow is a file to tail instead of reading stdin.
	Follow string

	// FromStart replays the followed file from the beginning instead of
	// starting at its current end.
	FromStart bool

	// QueueSize bounds the pipeline queues; 0 means unbounded.
	QueueSize int

	// Overflow is the bounded-queue policy: block, drop-newest, drop-oldest.
	Overflow string

	BackoffInitial  time.Duration
	BackoffMax      time.Duration
	DialTimeout     time.Duration
	ShutdownTimeout time.Duration

	// WatchConfig reloads the config file on change and applies address
	// switches to the running client.
	WatchConfig bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Level:           "info",
		Overflow:        "block",
		BackoffInitial:  pipeline.DefaultBackoffInitial,
		BackoffMax:      pipeline.DefaultBackoffMax,
		DialTimeout:     5 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue-size must not be negative")
	}
	if _, err := ParseOverflow(c.Overflow); err != nil {
		return err
	}
	if c.BackoffInitial <= 0 {
		return fmt.Errorf("backoff-initial must be positive")
	}
	if c.BackoffMax < c.BackoffInitial {
		return fmt.Errorf("backoff-max must not be below backoff-initial")
	}
	return nil
}

// ParseOverflow maps the CLI policy name to the pipeline policy.
func ParseOverflow(s string) (pipeline.OverflowPolicy, error) {
	switch s {
	case "", "block":
		return pipeline.OverflowBlock, nil
	case "drop-newest":
		return pipeline.OverflowDropNewest, nil
	case "drop-oldest":
		return pipeline.OverflowDropOldest, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q (want block, drop-newest or drop-oldest)", s)
	}
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
