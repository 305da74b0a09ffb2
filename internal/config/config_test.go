package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symgraph.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
graph_name = "mydeps"

[sanitizer]
reserved_prefix_len = 2
exclude_symbols = ["llvm*"]

[[clusters]]
name = "core"
members = ["lib*"]

[output]
dot = "out.dot"

[watch]
debounce = "250ms"
rescan_per_sec = 4.0

[history]
path = "runs.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GraphName != "mydeps" {
		t.Errorf("GraphName = %q", cfg.GraphName)
	}
	if cfg.Sanitizer.ReservedPrefixLen != 2 {
		t.Errorf("ReservedPrefixLen = %d", cfg.Sanitizer.ReservedPrefixLen)
	}
	if len(cfg.Clusters) != 1 || cfg.Clusters[0].Name != "core" {
		t.Errorf("Clusters = %+v", cfg.Clusters)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescanPerSec != 4.0 {
		t.Errorf("RescanPerSec = %v", cfg.Watch.RescanPerSec)
	}
	if cfg.History.Path != "runs.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GraphName != "deps" {
		t.Errorf("GraphName default = %q", cfg.GraphName)
	}
	if cfg.Sanitizer.ReservedPrefixLen != 1 {
		t.Errorf("ReservedPrefixLen default = %d", cfg.Sanitizer.ReservedPrefixLen)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce default = %v", cfg.Watch.Debounce)
	}
	if cfg.Output.DOT != "" || cfg.History.Path != "" || cfg.Metrics.Addr != "" {
		t.Error("optional outputs should default to disabled")
	}
}

func TestLoad_InvalidPrefixLen(t *testing.T) {
	_, err := Load(writeConfig(t, "[sanitizer]\nreserved_prefix_len = 3\n"))
	if err == nil {
		t.Error("reserved_prefix_len = 3 accepted")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.GraphName != "deps" || cfg.Sanitizer.ReservedPrefixLen != 1 {
		t.Errorf("Default() = %+v", cfg)
	}
}
