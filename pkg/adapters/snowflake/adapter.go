package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/primebrains/sqltools/pkg/adapter"
	sf "github.com/snowflakedb/gosnowflake"
)

// Name is the registry name of the adapter.
const Name = "snowflake"

// Adapter implements the adapter.Adapter interface for Snowflake.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Snowflake adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return Name
}

// Connect establishes a connection to Snowflake.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to snowflake",
		slog.String("account", cfg.Host),
		slog.String("database", cfg.Database))

	return a.Open(ctx, "snowflake", dsn, cfg)
}

// buildDSN accepts the driver DSN (user:pass@account/db/schema?params),
// optionally prefixed with snowflake://, or builds one from the discrete
// fields where Host names the account.
func buildDSN(cfg adapter.Config) (string, error) {
	if cfg.URL != "" {
		raw := strings.TrimPrefix(cfg.URL, "snowflake://")
		c, err := sf.ParseDSN(raw)
		if err != nil {
			return "", fmt.Errorf("invalid snowflake url: %w", err)
		}
		if cfg.Username != "" {
			c.User = cfg.Username
		}
		if cfg.Password != "" {
			c.Password = cfg.Password
		}
		return sf.DSN(c)
	}

	if cfg.Host == "" {
		return "", fmt.Errorf("snowflake account is required (set host or url)")
	}

	c := &sf.Config{
		Account:   cfg.Host,
		User:      cfg.Username,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Options["warehouse"],
		Role:      cfg.Options["role"],
	}
	if cfg.Port != 0 {
		c.Port = cfg.Port
	}
	return sf.DSN(c)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
