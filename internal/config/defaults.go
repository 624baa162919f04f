package config

// Default configuration values.
const (
	DefaultDatabaseKey = "default"
	DefaultOutputDir   = "./output"
	DefaultFormat      = "csv"
	DefaultJobs        = 1
)

// Config file names looked up in the working directory, in order.
const (
	ConfigFileName    = "sqltools.yaml"
	ConfigFileNameAlt = "sqltools.yml"
)

// defaultPorts holds the port used when a network entry leaves it unset.
var defaultPorts = map[string]int{
	"postgres": 5432,
}

// DefaultPortForType returns the default port of a network database type,
// or 0 when the type has none.
func DefaultPortForType(dbType string) int {
	return defaultPorts[dbType]
}
