// Package config provides configuration management for the sqltools CLI.
//
// Settings come from, in increasing order of precedence, built-in defaults,
// the YAML config file, SQLTOOLS_* environment variables and explicitly set
// command line flags. Database entries are the shared types of
// internal/config.
package config

import (
	"errors"

	sharedcfg "github.com/primebrains/sqltools/internal/config"
)

// DatabaseConfig is an alias for the shared database entry type.
type DatabaseConfig = sharedcfg.DatabaseConfig

// ErrDatabaseNotFound is returned when the selected database key has no entry.
var ErrDatabaseNotFound = errors.New("database configuration not found for key")

// Config holds all CLI configuration options.
type Config struct {
	Database  string                    `koanf:"database"`
	OutputDir string                    `koanf:"output_dir"`
	Format    string                    `koanf:"format"`
	StatePath string                    `koanf:"state_path"`
	Jobs      int                       `koanf:"jobs"`
	Verbose   bool                      `koanf:"verbose"`
	Databases map[string]DatabaseConfig `koanf:"databases"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultDatabase  = sharedcfg.DefaultDatabaseKey
	DefaultOutputDir = sharedcfg.DefaultOutputDir
	DefaultFormat    = sharedcfg.DefaultFormat
	DefaultJobs      = sharedcfg.DefaultJobs
	EnvPrefix        = "SQLTOOLS_"
)
