package tasks

import "time"

// Config sizes the poll_orders worker pool.
type Config struct {
	Workers         int           // Concurrent workers. Default: 2
	ReleaseAfter    time.Duration // Stuck tasks go back to the queue after this. Default: 5m
	CleanupInterval time.Duration // How often finished tasks are purged. Default: 1h
}

// DefaultConfig returns the configuration used for unset fields.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    5 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// withDefaults fills zero and negative fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	return c
}
