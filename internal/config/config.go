package config

import "time"

// TrendJobConfig is the root configuration for a trend job instance.
type TrendJobConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DatabaseConfig `yaml:"database"`
	Job      JobConfig      `yaml:"job"`
	Stats    StatsConfig    `yaml:"stats"`
	Health   HealthConfig   `yaml:"health"`
}

// InstanceConfig identifies this job instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig holds the PostgreSQL connection for quote and trend data.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// JobConfig holds recompute job settings.
type JobConfig struct {
	Cron       string        `yaml:"cron"`         // five-field cron spec
	RunOnStart bool          `yaml:"run_on_start"` // recompute once at startup
	Timeout    time.Duration `yaml:"timeout"`      // cap on one recompute cycle
}

// StatsConfig holds top-mover statistics settings.
type StatsConfig struct {
	HistoryDays int `yaml:"history_days"` // per-item history window
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
