package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Audit.validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if err := c.Features.validate(); err != nil {
		return fmt.Errorf("features: %w", err)
	}

	return nil
}

func (a *AuditConfig) validate() error {
	if strings.TrimSpace(a.LinkPrefix) == "" {
		return fmt.Errorf("link_prefix is required")
	}
	if a.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", a.DefaultPageSize)
	}
	if a.MaxPageSize < a.DefaultPageSize {
		return fmt.Errorf("max_page_size (%d) must be >= default_page_size (%d)", a.MaxPageSize, a.DefaultPageSize)
	}
	return nil
}

func (f *FeaturesConfig) validate() error {
	if f.MaxNameLength <= 0 {
		return fmt.Errorf("max_name_length must be > 0 (got %d)", f.MaxNameLength)
	}
	if f.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be > 0 (got %d)", f.MaxDepth)
	}
	if f.MaxFeaturesPerOwner <= 0 {
		return fmt.Errorf("max_features_per_owner must be > 0 (got %d)", f.MaxFeaturesPerOwner)
	}
	if f.ReindexConcurrency <= 0 {
		return fmt.Errorf("reindex_concurrency must be > 0 (got %d)", f.ReindexConcurrency)
	}
	return nil
}
