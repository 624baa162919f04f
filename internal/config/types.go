// Package config holds the database connection entries of a sqltools config
// file and turns them into adapter configurations.
// It is decoupled from CLI concerns so that other tools can reuse it.
package config

// DatabaseConfig is one entry under the "databases" key of the config file.
// URL is usually enough; the discrete fields are alternatives for drivers
// that prefer them.
type DatabaseConfig struct {
	// Type is the adapter name. When empty it is inferred from URL.
	Type string `koanf:"type"`

	URL      string `koanf:"url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}
