package core

import "context"

// Adapter is the contract every database adapter implements.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement and collects its whole result.
	Query(ctx context.Context, sql string) (*ResultSet, error)

	// Name returns the registry name of the adapter.
	Name() string
}

// AdapterConfig holds configuration for connecting to a database.
// URL, when set, is a driver specific connection string and takes
// precedence over the discrete Host/Port/Database fields.
type AdapterConfig struct {
	Type     string
	URL      string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}
