package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.yaml", `
discord:
  token: "abc"
  rate_per_sec: 5
google:
  client_id: "id"
  client_secret: "secret"
logging:
  level: "debug"
  console: true
  file:
    enabled: false
    path: ""
scheduler:
  timezone: "Asia/Seoul"
storage:
  dir: "./data"
`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Discord.Token != "abc" {
		t.Fatalf("Token = %q, want abc", cfg.Discord.Token)
	}
	if cfg.Discord.RatePerSec != 5 {
		t.Fatalf("RatePerSec = %d, want 5", cfg.Discord.RatePerSec)
	}
	if cfg.Scheduler.Timezone != "Asia/Seoul" {
		t.Fatalf("Timezone = %q", cfg.Scheduler.Timezone)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.json",
		`{"discord":{"token":"t"},"google":{"client_id":"a","client_secret":"b"},"logging":{"level":"info","console":true,"file":{"enabled":false,"path":""}},"scheduler":{},"storage":{"dir":"d"},"bogus":1}`)

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "config.json",
		`{"discord":{"token":"t"},"google":{"client_id":"a","client_secret":"b"},"logging":{"level":"info","console":true,"file":{"enabled":false,"path":""}},"scheduler":{},"storage":{"dir":"d"}}{}`)

	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationField("x", "90s")
	if err != nil {
		t.Fatalf("ParseDurationField: %v", err)
	}
	if d.Seconds() != 90 {
		t.Fatalf("d = %v", d)
	}
	if _, err := ParseDurationField("x", "-1s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
	if d, _ := ParseDurationOrDefault("x", "", 42); d != 42 {
		t.Fatalf("default not applied: %v", d)
	}
}
