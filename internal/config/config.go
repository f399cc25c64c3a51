package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seiri-tools/seiri/internal/fact"
)

// ProjectConfig holds project-level settings loaded from seiri.yml.
type ProjectConfig struct {
	Languages   []string `yaml:"languages,omitempty"`
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
	Output      string   `yaml:"output,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	Database    string   `yaml:"database,omitempty"`
	Verbose     bool     `yaml:"verbose,omitempty"`
	Workers     int      `yaml:"workers,omitempty"`
}

// Load attempts to read seiri.yml or seiri.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"seiri.yml", "seiri.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

func (c *ProjectConfig) validate() error {
	for _, l := range c.Languages {
		if !validLanguage(fact.Language(l)) {
			return fmt.Errorf("unsupported language %q", l)
		}
	}
	switch c.Format {
	case "", "json", "mermaid", "text", "svg":
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}

// ParsedLanguages converts the configured language names.
func (c *ProjectConfig) ParsedLanguages() []fact.Language {
	langs := make([]fact.Language, 0, len(c.Languages))
	for _, l := range c.Languages {
		langs = append(langs, fact.Language(l))
	}
	return langs
}

func validLanguage(l fact.Language) bool {
	for _, known := range fact.AllLanguages {
		if l == known {
			return true
		}
	}
	return false
}
