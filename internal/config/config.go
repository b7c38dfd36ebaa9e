// Package config aggregates the per-component tuning knobs into one
// startup configuration object, loadable from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soullab/oracle-engine/internal/analyzer"
	"github.com/soullab/oracle-engine/internal/catalog"
	"github.com/soullab/oracle-engine/internal/posture"
	"github.com/soullab/oracle-engine/internal/prosody"
	"github.com/soullab/oracle-engine/internal/selector"
)

// #region config

// Config is the engine's full static configuration, supplied at startup.
// No network fetch; a file or the built-in defaults.
type Config struct {
	Analyzer analyzer.Config `yaml:"analyzer"`
	Selector selector.Config `yaml:"selector"`
	Posture  posture.Config  `yaml:"posture"`
	Prosody  prosody.Config  `yaml:"prosody"`

	// BalanceDecay is the per-turn blend weight for the rolling element
	// balance. 0 means the session default.
	BalanceDecay float32 `yaml:"balance_decay"`

	// CatalogPath optionally overrides the built-in agent roster.
	CatalogPath string `yaml:"catalog_path"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Analyzer:     analyzer.DefaultConfig(),
		Selector:     selector.DefaultConfig(),
		Posture:      posture.DefaultConfig(),
		Prosody:      prosody.DefaultConfig(),
		BalanceDecay: 0.35,
	}
}

// #endregion

// #region load

// Load reads a YAML config file over the defaults: keys present in the
// file override, everything else keeps its default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Catalog resolves the agent roster: the configured file when set,
// otherwise the built-in catalog.
func (c Config) Catalog() (catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Builtin(), nil
	}
	return catalog.Load(c.CatalogPath)
}

// #endregion
