package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/primebrains/sqltools/pkg/adapter"
	"github.com/primebrains/sqltools/pkg/core"
)

// urlScheme maps a connection URL prefix to an adapter type. File-based
// schemes carry a path after the prefix instead of a URL.
type urlScheme struct {
	prefix string
	typ    string
	isPath bool
}

// Checked in order after an optional "jdbc:" prefix has been removed.
var urlSchemes = []urlScheme{
	{prefix: "postgresql://", typ: "postgres"},
	{prefix: "postgres://", typ: "postgres"},
	{prefix: "clickhouse://", typ: "clickhouse"},
	{prefix: "snowflake://", typ: "snowflake"},
	{prefix: "duckdb:", typ: "duckdb", isPath: true},
	{prefix: "sqlite:", typ: "sqlite", isPath: true},
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// InferType returns the adapter type implied by a connection URL, or "" when
// the URL is not recognised.
func InferType(rawURL string) string {
	if s, ok := matchScheme(rawURL); ok {
		return s.typ
	}
	return ""
}

func matchScheme(rawURL string) (urlScheme, bool) {
	u := strings.TrimPrefix(strings.TrimSpace(rawURL), "jdbc:")
	lower := strings.ToLower(u)
	for _, s := range urlSchemes {
		if strings.HasPrefix(lower, s.prefix) {
			return s, true
		}
	}
	return urlScheme{}, false
}

// ResolveTarget converts a config file entry into an adapter configuration.
// ${VAR} references in the url, credentials and host are expanded from the
// environment. The adapter type is taken from the entry or inferred from
// its URL; a "jdbc:" URL prefix is accepted and dropped.
func ResolveTarget(db DatabaseConfig) (core.AdapterConfig, error) {
	cfg := core.AdapterConfig{
		Type:     strings.ToLower(strings.TrimSpace(db.Type)),
		URL:      expandEnvVars(strings.TrimSpace(db.URL)),
		Path:     expandEnvVars(db.Path),
		Host:     expandEnvVars(db.Host),
		Port:     db.Port,
		Database: db.Database,
		Username: expandEnvVars(db.Username),
		Password: expandEnvVars(db.Password),
		Schema:   db.Schema,
		Options:  db.Options,
		Params:   db.Params,
	}

	if cfg.URL != "" {
		scheme, ok := matchScheme(cfg.URL)
		switch {
		case ok && (cfg.Type == "" || cfg.Type == scheme.typ):
			cfg.Type = scheme.typ
			rest := strings.TrimPrefix(cfg.URL, "jdbc:")
			if scheme.isPath {
				if cfg.Path == "" {
					cfg.Path = rest[len(scheme.prefix):]
				}
				cfg.URL = ""
			} else {
				cfg.URL = rest
			}
		case cfg.Type == "":
			return core.AdapterConfig{}, fmt.Errorf("cannot determine database type from url %q\nHint: set type explicitly in the database entry", db.URL)
		}
	}

	if cfg.Type == "" {
		return core.AdapterConfig{}, fmt.Errorf("database entry has neither url nor type")
	}
	if cfg.Port == 0 && cfg.URL == "" {
		cfg.Port = DefaultPortForType(cfg.Type)
	}
	return cfg, nil
}

// Validate checks that the resolved configuration names a registered adapter.
func Validate(cfg core.AdapterConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("adapter type not specified")
	}
	if !adapter.IsRegistered(cfg.Type) {
		return &adapter.UnknownAdapterError{Type: cfg.Type, Available: adapter.ListAdapters()}
	}
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}
