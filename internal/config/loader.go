package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FindConfigFile returns the config file inside dir, or "" when there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadDatabases reads the "databases" section of the YAML file at path.
func LoadDatabases(path string) (map[string]DatabaseConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var dbs map[string]DatabaseConfig
	if err := k.Unmarshal("databases", &dbs); err != nil {
		return nil, fmt.Errorf("invalid databases section in %s: %w", path, err)
	}
	return dbs, nil
}
