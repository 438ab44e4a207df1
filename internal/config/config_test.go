package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target != "8.8.8.8" || cfg.GreenThresholdMs != 100 || cfg.YellowThresholdMs != 200 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Config{
		Target:            "example.com",
		GreenThresholdMs:  50,
		YellowThresholdMs: 120,
		Listen:            "127.0.0.1:8080",
		UIDisable:         true,
		LogLevel:          "debug",
	}

	if err := want.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("target: example.org\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Target != "example.org" {
		t.Fatalf("expected target from file, got %q", cfg.Target)
	}
	if cfg.GreenThresholdMs != 100 || cfg.YellowThresholdMs != 200 {
		t.Fatalf("expected default thresholds, got %d/%d", cfg.GreenThresholdMs, cfg.YellowThresholdMs)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("target: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNormalizeClampsValues(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "empty target",
			in:   Config{GreenThresholdMs: 100, YellowThresholdMs: 200, LogLevel: "info"},
			want: Config{Target: "8.8.8.8", GreenThresholdMs: 100, YellowThresholdMs: 200, LogLevel: "info"},
		},
		{
			name: "nonpositive thresholds",
			in:   Config{Target: "example.com", GreenThresholdMs: -5, YellowThresholdMs: 0, LogLevel: "info"},
			want: Config{Target: "example.com", GreenThresholdMs: 100, YellowThresholdMs: 200, LogLevel: "info"},
		},
		{
			name: "yellow below green",
			in:   Config{Target: "example.com", GreenThresholdMs: 300, YellowThresholdMs: 150, LogLevel: "info"},
			want: Config{Target: "example.com", GreenThresholdMs: 300, YellowThresholdMs: 300, LogLevel: "info"},
		},
		{
			name: "empty log level",
			in:   Config{Target: "example.com", GreenThresholdMs: 100, YellowThresholdMs: 200},
			want: Config{Target: "example.com", GreenThresholdMs: 100, YellowThresholdMs: 200, LogLevel: "info"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalize(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	target := "override.example.com"
	green := 30
	listen := ":9090"
	disable := true

	cfg := Default().Apply(CLIOverrides{
		Target:           &target,
		GreenThresholdMs: &green,
		Listen:           &listen,
		UIDisable:        &disable,
	})

	if cfg.Target != target {
		t.Fatalf("expected target override, got %q", cfg.Target)
	}
	if cfg.GreenThresholdMs != 30 {
		t.Fatalf("expected green override, got %d", cfg.GreenThresholdMs)
	}
	if cfg.YellowThresholdMs != 200 {
		t.Fatalf("expected yellow untouched, got %d", cfg.YellowThresholdMs)
	}
	if cfg.Listen != listen || !cfg.UIDisable {
		t.Fatalf("expected listen and ui overrides, got %+v", cfg)
	}
}

func TestApplyIgnoresEmptyStrings(t *testing.T) {
	empty := ""
	cfg := Default().Apply(CLIOverrides{Target: &empty, LogLevel: &empty})

	if cfg.Target != "8.8.8.8" || cfg.LogLevel != "info" {
		t.Fatalf("empty overrides must not clear values: %+v", cfg)
	}
}

func TestThresholdDurations(t *testing.T) {
	cfg := Config{GreenThresholdMs: 100, YellowThresholdMs: 200}
	if cfg.GreenThreshold() != 100*time.Millisecond {
		t.Fatalf("unexpected green duration %s", cfg.GreenThreshold())
	}
	if cfg.YellowThreshold() != 200*time.Millisecond {
		t.Fatalf("unexpected yellow duration %s", cfg.YellowThreshold())
	}
}
