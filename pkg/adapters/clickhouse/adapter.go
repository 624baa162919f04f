package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/primebrains/sqltools/pkg/adapter"
)

// Name is the registry name of the adapter.
const Name = "clickhouse"

const (
	defaultNativePort = 9000
	defaultHTTPPort   = 8123
	dialTimeout       = 5 * time.Second
)

// Adapter implements the adapter.Adapter interface for ClickHouse.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new ClickHouse adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return Name
}

// Connect opens a database/sql handle on the ClickHouse driver.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to clickhouse",
		slog.Any("addr", opts.Addr),
		slog.String("database", opts.Auth.Database),
		slog.Any("protocol", opts.Protocol))

	return a.Attach(ctx, Name, ch.OpenDB(opts), cfg)
}

// buildOptions parses cfg.URL when set, otherwise assembles options from the
// discrete fields. Username and password from the config always win.
func buildOptions(cfg adapter.Config) (*ch.Options, error) {
	var opts *ch.Options
	if cfg.URL != "" {
		parsed, err := ch.ParseDSN(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid clickhouse url: %w", err)
		}
		opts = parsed
	} else {
		protocol := ch.Native
		port := defaultNativePort
		if cfg.Options["protocol"] == "http" {
			protocol = ch.HTTP
			port = defaultHTTPPort
		}
		if cfg.Port != 0 {
			port = cfg.Port
		}
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		opts = &ch.Options{
			Addr:        []string{net.JoinHostPort(host, strconv.Itoa(port))},
			Protocol:    protocol,
			Auth:        ch.Auth{Database: cfg.Database},
			DialTimeout: dialTimeout,
		}
	}

	if cfg.Username != "" {
		opts.Auth.Username = cfg.Username
	}
	if cfg.Password != "" {
		opts.Auth.Password = cfg.Password
	}
	if opts.Compression == nil && cfg.Options["compression"] == "lz4" {
		opts.Compression = &ch.Compression{Method: ch.CompressionLZ4}
	}
	return opts, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
