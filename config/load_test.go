package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver = %q", cfg.DBDriver)
	}
	if cfg.ListenAddr != "0.0.0.0:8080" {
		t.Fatalf("listen = %q", cfg.ListenAddr)
	}
	if cfg.Ingest.Watch.Enabled {
		t.Fatal("watcher should default to disabled")
	}
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "db_driver: sqlite\ndb_path: /tmp/chrono-test.db\nlisten_addr: 127.0.0.1:9090\ningest:\n  watch:\n    enabled: true\n    dir: /tmp/feeds\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Fatalf("listen = %q", cfg.ListenAddr)
	}
	if !cfg.Ingest.Watch.Enabled || cfg.Ingest.Watch.Dir != "/tmp/feeds" {
		t.Fatalf("watch = %+v", cfg.Ingest.Watch)
	}
}

func TestWatchConfigEffectiveDefaults(t *testing.T) {
	var c WatchConfig
	if c.EffectiveSchedule() != "@every 1m" {
		t.Fatalf("schedule = %q", c.EffectiveSchedule())
	}
	if c.EffectivePattern() != "*.txt" {
		t.Fatalf("pattern = %q", c.EffectivePattern())
	}
}
