package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDBPort      = 5432
	DefaultDBSSLMode   = "prefer"
	DefaultMaxConns    = 10
	DefaultMinConns    = 2
	DefaultJobCron     = "0 * * * *" // hourly
	DefaultJobTimeout  = 10 * time.Minute
	DefaultHistoryDays = 7
	DefaultHealthPort  = 8080
)

func (c *TrendJobConfig) applyDefaults() {
	applyDBDefaults(&c.Database.Postgres)

	// Job defaults
	if c.Job.Cron == "" {
		c.Job.Cron = DefaultJobCron
	}
	if c.Job.Timeout == 0 {
		c.Job.Timeout = DefaultJobTimeout
	}

	// Stats defaults
	if c.Stats.HistoryDays == 0 {
		c.Stats.HistoryDays = DefaultHistoryDays
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
