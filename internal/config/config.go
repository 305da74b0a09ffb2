// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	symerrors "symgraph/internal/errors"
)

type Config struct {
	GraphName string    `toml:"graph_name"`
	Sanitizer Sanitizer `toml:"sanitizer"`
	Clusters  []Cluster `toml:"clusters"`
	Output    Output    `toml:"output"`
	Watch     Watch     `toml:"watch"`
	History   History   `toml:"history"`
	Metrics   Metrics   `toml:"metrics"`
}

type Sanitizer struct {
	// ReservedPrefixLen selects how many leading underscores mark a name as
	// compiler reserved (1 or 2).
	ReservedPrefixLen int      `toml:"reserved_prefix_len"`
	ExcludeSymbols    []string `toml:"exclude_symbols"`
}

type Cluster struct {
	Name    string   `toml:"name"`
	Members []string `toml:"members"` // globs matched against sanitized node labels
}

type Output struct {
	DOT string `toml:"dot"` // empty = stdout
}

type Watch struct {
	Debounce     time.Duration `toml:"debounce"`
	RescanPerSec float64       `toml:"rescan_per_sec"`
}

type History struct {
	Path string `toml:"path"` // empty = disabled
}

type Metrics struct {
	Addr string `toml:"addr"` // empty = no listener
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, symerrors.Wrap(err, symerrors.CodeValidationError, "cannot parse config")
	}

	cfg.applyDefaults()

	if cfg.Sanitizer.ReservedPrefixLen != 1 && cfg.Sanitizer.ReservedPrefixLen != 2 {
		return nil, symerrors.New(symerrors.CodeValidationError, "sanitizer.reserved_prefix_len must be 1 or 2")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.GraphName == "" {
		c.GraphName = "deps"
	}
	if c.Sanitizer.ReservedPrefixLen == 0 {
		c.Sanitizer.ReservedPrefixLen = 1
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.RescanPerSec == 0 {
		c.Watch.RescanPerSec = 2.0
	}
}
