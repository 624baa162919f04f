package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqltools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("database", "d", DefaultDatabase, "database key")
	flags.StringP("output-dir", "o", DefaultOutputDir, "output directory")
	flags.StringP("format", "f", DefaultFormat, "output format")
	flags.String("state", "", "history database")
	flags.IntP("jobs", "j", DefaultJobs, "parallel files")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Database)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Empty(t, cfg.StatePath)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Fixtures(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		ResetConfig()
		t.Setenv("WAREHOUSE_PASSWORD", "pw")

		cfgPath := filepath.Join("testdata", "valid.yaml")
		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)

		assert.Equal(t, cfgPath, GetConfigFileUsed())
		assert.Equal(t, "warehouse", cfg.Database)
		assert.Equal(t, "results", cfg.OutputDir)
		assert.Equal(t, "yaml", cfg.Format)
		assert.Equal(t, 2, cfg.Jobs)
		assert.Equal(t, []string{"default", "warehouse"}, cfg.DatabaseKeys())

		db, err := cfg.SelectedDatabase()
		require.NoError(t, err)
		assert.Equal(t, "jdbc:postgresql://localhost:5432/warehouse", db.URL)
		assert.Equal(t, "report", db.Username)
		// expansion happens when the entry is resolved
		assert.Equal(t, "${WAREHOUSE_PASSWORD}", db.Password)
	})

	t.Run("invalid format", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join("testdata", "invalid_format.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "pdf")
	})

	t.Run("invalid jobs", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join("testdata", "invalid_jobs.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jobs must be at least 1")
	})

	t.Run("missing file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join("testdata", "missing.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoadConfig_DiscoversFileInWorkingDir(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqltools.yml"), []byte("format: json\n"), 0o600))
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, filepath.Join(".", "sqltools.yml"), GetConfigFileUsed())
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output_dir: from_file\nformat: yaml\n")
	t.Setenv("SQLTOOLS_OUTPUT_DIR", "from_env")

	flags := testFlags()
	require.NoError(t, flags.Set("output-dir", "from_flag"))
	require.NoError(t, flags.Set("state", "history.db"))
	require.NoError(t, flags.Set("jobs", "3"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.OutputDir, "flag value should override config file and env var")
	assert.Equal(t, "history.db", cfg.StatePath, "--state maps to state_path")
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "yaml", cfg.Format, "unset flag should not override file")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output_dir: from_file\njobs: 2\n")
	t.Setenv("SQLTOOLS_OUTPUT_DIR", "from_env")
	t.Setenv("SQLTOOLS_JOBS", "5")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.OutputDir, "env var should override config file")
	assert.Equal(t, 5, cfg.Jobs)
}

func TestConfig_DatabaseEntry(t *testing.T) {
	cfg := &Config{
		Database: "missing",
		Databases: map[string]DatabaseConfig{
			"default": {URL: "sqlite:a.db"},
		},
	}

	db, err := cfg.DatabaseEntry("default")
	require.NoError(t, err)
	assert.Equal(t, "sqlite:a.db", db.URL)

	_, err = cfg.SelectedDatabase()
	require.ErrorIs(t, err, ErrDatabaseNotFound)
	assert.Contains(t, err.Error(), "database configuration not found for key: missing")
	assert.Contains(t, err.Error(), "[default]")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Database: "default", OutputDir: "out", Format: "csv", Jobs: 1}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty database", mutate: func(c *Config) { c.Database = "" }, wantErr: "database key is required"},
		{name: "empty output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: "output_dir is required"},
		{name: "excel alias", mutate: func(c *Config) { c.Format = "xlsx" }},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: "unsupported format"},
		{name: "no jobs", mutate: func(c *Config) { c.Jobs = 0 }, wantErr: "jobs must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	assert.Same(t, logger, GetLogger(WithLogger(context.Background(), logger)))
}
