// Package duckdb provides a DuckDB database adapter for sqltools.
//
// This file registers the DuckDB adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/primebrains/sqltools/pkg/adapters/duckdb"
package duckdb

import (
	"log/slog"

	"github.com/primebrains/sqltools/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(l *slog.Logger) adapter.Adapter { return New(l) })
}
