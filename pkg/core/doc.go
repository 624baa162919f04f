// Package core defines the types shared by the adapters, the runner and the
// exporters of sqltools.
//
// This package contains:
//   - Adapter connection settings (AdapterConfig)
//   - The Adapter service interface
//   - Tabular query results (ResultSet)
//
// pkg/core imports only the standard library. Every other package depends
// on core, not the reverse.
package core
