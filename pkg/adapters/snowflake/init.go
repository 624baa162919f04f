// Package snowflake provides a Snowflake database adapter for sqltools.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/primebrains/sqltools/pkg/adapters/snowflake"
package snowflake

import (
	"log/slog"

	"github.com/primebrains/sqltools/pkg/adapter"
)

func init() {
	adapter.Register(Name, func(l *slog.Logger) adapter.Adapter { return New(l) })
}
