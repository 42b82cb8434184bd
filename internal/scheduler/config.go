package scheduler

import (
	"time"
)

// Config controls sweep cadence and per-sweep limits.
type Config struct {
	RunInterval  time.Duration
	SweepTimeout time.Duration
	LockTTL      time.Duration
	LockKey      string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:  5 * time.Minute,
		SweepTimeout: 2 * time.Minute,
		LockTTL:      4 * time.Minute,
		LockKey:      "commission:scheduler:sweep",
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.SweepTimeout <= 0 {
		c.SweepTimeout = defaults.SweepTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.LockKey == "" {
		c.LockKey = defaults.LockKey
	}
	return c
}
