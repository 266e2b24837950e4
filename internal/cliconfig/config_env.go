package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LOGSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("addr", os.Getenv("LOGSHIP_ADDR"), &cfg.Addr)
	s.setString("source", os.Getenv("LOGSHIP_SOURCE"), &cfg.Source)
	s.setString("level", os.Getenv("LOGSHIP_LEVEL"), &cfg.Level)
	s.setString("follow", os.Getenv("LOGSHIP_FOLLOW"), &cfg.Follow)
	s.setString("overflow", os.Getenv("LOGSHIP_OVERFLOW"), &cfg.Overflow)

	if err := s.setIntFromString("queue-size", os.Getenv("LOGSHIP_QUEUE_SIZE"), &cfg.QueueSize); err != nil {
		return err
	}

	if err := s.setDuration("backoff-initial", os.Getenv("LOGSHIP_BACKOFF_INITIAL"), &cfg.BackoffInitial); err != nil {
		return err
	}
	if err := s.setDuration("backoff-max", os.Getenv("LOGSHIP_BACKOFF_MAX"), &cfg.BackoffMax); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", os.Getenv("LOGSHIP_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}
	if err := s.setDuration("shutdown-timeout", os.Getenv("LOGSHIP_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}

	s.setBoolFromString("from-start", os.Getenv("LOGSHIP_FROM_START"), &cfg.FromStart)
	s.setBoolFromString("watch-config", os.Getenv("LOGSHIP_WATCH_CONFIG"), &cfg.WatchConfig)

	return nil
}
