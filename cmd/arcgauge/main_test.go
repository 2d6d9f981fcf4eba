package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/arcgauge/internal/model"
)

func TestLoadGaugeConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[gauge]\nmin = -10\nmax = 40\nunit = \"°C\"\n\n[server]\nlisten = \":9000\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--max", "50", "--duration", "250"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, fileCfg, err := loadGaugeConfig(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Min != -10 || cfg.Max != 50 {
		t.Fatalf("expected range -10..50, got %v..%v", cfg.Min, cfg.Max)
	}
	if cfg.Unit != "°C" {
		t.Fatalf("expected unit from file, got %q", cfg.Unit)
	}
	if cfg.Duration != 250*time.Millisecond {
		t.Fatalf("expected 250ms duration, got %v", cfg.Duration)
	}
	if cfg.Decimal != model.DefaultGaugeConfig().Decimal {
		t.Fatalf("expected default decimal, got %d", cfg.Decimal)
	}
	if fileCfg.Server.Listen == nil || *fileCfg.Server.Listen != ":9000" {
		t.Fatalf("expected server listen from file, got %v", fileCfg.Server.Listen)
	}
}

func TestLoadGaugeConfigMissingFile(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, _, err := loadGaugeConfig(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Min != 0 || cfg.Max != 100 {
		t.Fatalf("expected default range, got %v..%v", cfg.Min, cfg.Max)
	}
}

func TestParseThresholds(t *testing.T) {
	specs, err := parseThresholds([]string{"low:15:Too cold", "high: 85"})
	if err != nil {
		t.Fatalf("parse thresholds: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 thresholds, got %d", len(specs))
	}
	if specs[0] != (model.ThresholdSpec{Name: "Too cold", Value: 15, Type: "low", Alarm: true}) {
		t.Fatalf("unexpected low threshold: %+v", specs[0])
	}
	if specs[1].Type != "high" || specs[1].Value != 85 || specs[1].Name != "" {
		t.Fatalf("unexpected high threshold: %+v", specs[1])
	}

	for _, raw := range []string{"low", "high:warm"} {
		if _, err := parseThresholds([]string{raw}); !errors.Is(err, model.ErrInvalidThreshold) {
			t.Fatalf("expected invalid threshold for %q, got %v", raw, err)
		}
	}
}

func TestApplyServerConfigRespectsChangedFlags(t *testing.T) {
	cmd := newServeCmd()
	if err := cmd.ParseFlags([]string{"--width", "640"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	listen := ":7000"
	width, height := 100, 120
	applyStringConfig(cmd, "listen", &serveListen, &listen)
	applyIntConfig(cmd, "width", &serveWidth, &width)
	applyIntConfig(cmd, "height", &serveHeight, &height)
	if serveListen != ":7000" || serveWidth != 640 || serveHeight != 120 {
		t.Fatalf("unexpected server settings: %s %d %d", serveListen, serveWidth, serveHeight)
	}
}

func TestOrDefault(t *testing.T) {
	if orDefault(0, 80) != 80 || orDefault(-1, 80) != 80 || orDefault(12, 80) != 12 {
		t.Fatal("unexpected orDefault result")
	}
}
