// Package postgres provides a PostgreSQL database adapter for sqltools.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/primebrains/sqltools/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/primebrains/sqltools/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(l *slog.Logger) adapter.Adapter { return New(l) })
}
