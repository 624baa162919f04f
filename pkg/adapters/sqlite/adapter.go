package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/primebrains/sqltools/pkg/adapter"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// Name is the registry name of the adapter.
const Name = "sqlite"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return Name
}

// Connect opens the database file at cfg.Path, or an in-memory database
// when the path is empty. Each entry of cfg.Options becomes a pragma.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	if err := a.Open(ctx, "sqlite", dsn, cfg); err != nil {
		return err
	}
	// An in-memory database lives as long as its connection.
	if dsn == ":memory:" {
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

func buildDSN(cfg adapter.Config) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, cfg.Options[k]))
	}
	return path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
