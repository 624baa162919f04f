package config

import (
	"fmt"
	"sort"

	"github.com/primebrains/sqltools/internal/export"
)

// Validate checks the settings that do not depend on a database entry.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database key is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

// DatabaseEntry returns the entry stored under key.
func (c *Config) DatabaseEntry(key string) (DatabaseConfig, error) {
	db, ok := c.Databases[key]
	if !ok {
		return DatabaseConfig{}, fmt.Errorf("%w: %s\nHint: configured keys are %v", ErrDatabaseNotFound, key, c.DatabaseKeys())
	}
	return db, nil
}

// SelectedDatabase returns the entry named by the database setting.
func (c *Config) SelectedDatabase() (DatabaseConfig, error) {
	return c.DatabaseEntry(c.Database)
}

// DatabaseKeys returns the configured database keys (sorted).
func (c *Config) DatabaseKeys() []string {
	keys := make([]string, 0, len(c.Databases))
	for k := range c.Databases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
