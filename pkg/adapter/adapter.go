// Package adapter provides the database adapter contract, a database/sql
// based implementation shared by the concrete adapters and the registry the
// concrete adapters add themselves to.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
// Import them with a blank identifier to register them.
package adapter

import "github.com/primebrains/sqltools/pkg/core"

// Type aliases so adapter implementations only need this package.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// ResultSet is an alias for core.ResultSet.
	ResultSet = core.ResultSet
)
