// Package clickhouse provides a ClickHouse database adapter for sqltools.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/primebrains/sqltools/pkg/adapters/clickhouse"
package clickhouse

import (
	"log/slog"

	"github.com/primebrains/sqltools/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(l *slog.Logger) adapter.Adapter { return New(l) })
}
