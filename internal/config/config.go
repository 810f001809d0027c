package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Audit    AuditConfig    `yaml:"audit"`
	Features FeaturesConfig `yaml:"features"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// ApplicationName is reported to Postgres in pg_stat_activity.
	ApplicationName string `yaml:"application_name" env:"DATABASE_APPLICATION_NAME" env-default:"featuretrail"`
	// StatementTimeout bounds every statement; 0 disables it.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AuditConfig holds activity log settings.
type AuditConfig struct {
	// LinkPrefix is prepended to an entry ID to form the deep links stored in
	// prev_link/next_link.
	LinkPrefix      string `yaml:"link_prefix"       env:"AUDIT_LINK_PREFIX"       env-default:"/activity-logs/"`
	DefaultPageSize int    `yaml:"default_page_size" env:"AUDIT_DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int    `yaml:"max_page_size"     env:"AUDIT_MAX_PAGE_SIZE"     env-default:"100"`
}

// FeaturesConfig holds feature tree limits.
type FeaturesConfig struct {
	MaxNameLength       int `yaml:"max_name_length"        env:"FEATURES_MAX_NAME_LENGTH"        env-default:"100"`
	MaxDepth            int `yaml:"max_depth"              env:"FEATURES_MAX_DEPTH"              env-default:"32"`
	MaxFeaturesPerOwner int `yaml:"max_features_per_owner" env:"FEATURES_MAX_FEATURES_PER_OWNER" env-default:"1000"`
	ReindexConcurrency  int `yaml:"reindex_concurrency"    env:"FEATURES_REINDEX_CONCURRENCY"    env-default:"4"`
}
