// Package config provides configuration helpers and config file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/arcgauge/internal/model"
)

// FileConfig represents the config file.
type FileConfig struct {
	Gauge  GaugeFileConfig  `toml:"gauge" yaml:"gauge"`
	Server ServerFileConfig `toml:"server" yaml:"server"`
}

// GaugeFileConfig maps gauge settings. Unset fields keep their defaults.
type GaugeFileConfig struct {
	Min   *float64 `toml:"min" yaml:"min"`
	Max   *float64 `toml:"max" yaml:"max"`
	Value *float64 `toml:"value" yaml:"value"`

	ArcThickness               *float64 `toml:"arc-thickness" yaml:"arc-thickness"`
	ThresholdArcThickness      *float64 `toml:"threshold-arc-thickness" yaml:"threshold-arc-thickness"`
	ThresholdArcHoverThickness *float64 `toml:"threshold-arc-hover-thickness" yaml:"threshold-arc-hover-thickness"`

	Decimal    *int    `toml:"decimal" yaml:"decimal"`
	Unit       *string `toml:"unit" yaml:"unit"`
	DurationMS *int    `toml:"duration" yaml:"duration"`
	Easing     *string `toml:"easing" yaml:"easing"`

	FontFamily    *string  `toml:"font-family" yaml:"font-family"`
	MeterFontSize *float64 `toml:"meter-font-size" yaml:"meter-font-size"`
	ValueFontSize *float64 `toml:"value-font-size" yaml:"value-font-size"`
	MarkerYOffset *float64 `toml:"marker-y-offset" yaml:"marker-y-offset"`

	ArcBackFillColor   *string `toml:"arc-back-fill-color" yaml:"arc-back-fill-color"`
	ArcDefaultColor    *string `toml:"arc-default-color" yaml:"arc-default-color"`
	MinMeterFontColor  *string `toml:"min-meter-font-color" yaml:"min-meter-font-color"`
	MaxMeterFontColor  *string `toml:"max-meter-font-color" yaml:"max-meter-font-color"`
	ValueFontColor     *string `toml:"value-font-color" yaml:"value-font-color"`
	LowThresholdColor  *string `toml:"low-threshold-color" yaml:"low-threshold-color"`
	HighThresholdColor *string `toml:"high-threshold-color" yaml:"high-threshold-color"`

	Thresholds []ThresholdFileConfig `toml:"thresholds" yaml:"thresholds"`
}

// ThresholdFileConfig maps one threshold entry.
type ThresholdFileConfig struct {
	Name  string   `toml:"name" yaml:"name"`
	Value *float64 `toml:"value" yaml:"value"`
	Type  *string  `toml:"type" yaml:"type"`
	Alarm bool     `toml:"alarm" yaml:"alarm"`
}

// ServerFileConfig maps HTTP host settings.
type ServerFileConfig struct {
	Listen *string `toml:"listen" yaml:"listen"`
	Width  *int    `toml:"width" yaml:"width"`
	Height *int    `toml:"height" yaml:"height"`
}

// LoadConfig reads a config from the given path. Files ending in .yaml or
// .yml are YAML, everything else is TOML. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// Apply overlays the set fields onto cfg. A threshold list, when present,
// replaces the configured one.
func (g GaugeFileConfig) Apply(cfg *model.GaugeConfig) error {
	setFloat(&cfg.Min, g.Min)
	setFloat(&cfg.Max, g.Max)
	setFloat(&cfg.Value, g.Value)
	setFloat(&cfg.ArcThickness, g.ArcThickness)
	setFloat(&cfg.ThresholdArcThickness, g.ThresholdArcThickness)
	setFloat(&cfg.ThresholdArcHoverThickness, g.ThresholdArcHoverThickness)
	if g.Decimal != nil {
		cfg.Decimal = *g.Decimal
	}
	setString(&cfg.Unit, g.Unit)
	if g.DurationMS != nil {
		cfg.Duration = time.Duration(*g.DurationMS) * time.Millisecond
	}
	setString(&cfg.Easing, g.Easing)
	setString(&cfg.FontFamily, g.FontFamily)
	setFloat(&cfg.MeterFontSize, g.MeterFontSize)
	setFloat(&cfg.ValueFontSize, g.ValueFontSize)
	setFloat(&cfg.MarkerYOffset, g.MarkerYOffset)
	setString(&cfg.ArcBackFillColor, g.ArcBackFillColor)
	setString(&cfg.ArcDefaultColor, g.ArcDefaultColor)
	setString(&cfg.MinMeterFontColor, g.MinMeterFontColor)
	setString(&cfg.MaxMeterFontColor, g.MaxMeterFontColor)
	setString(&cfg.ValueFontColor, g.ValueFontColor)
	setString(&cfg.LowThresholdColor, g.LowThresholdColor)
	setString(&cfg.HighThresholdColor, g.HighThresholdColor)

	if g.Thresholds == nil {
		return nil
	}
	specs := make([]model.ThresholdSpec, 0, len(g.Thresholds))
	for i, t := range g.Thresholds {
		if t.Value == nil {
			return fmt.Errorf("%w: threshold %d (%q) is missing value", model.ErrInvalidThreshold, i, t.Name)
		}
		if t.Type == nil {
			return fmt.Errorf("%w: threshold %d (%q) is missing type", model.ErrInvalidThreshold, i, t.Name)
		}
		specs = append(specs, model.ThresholdSpec{Name: t.Name, Value: *t.Value, Type: *t.Type, Alarm: t.Alarm})
	}
	cfg.Thresholds = specs
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Template returns the commented config file written by `arcgauge config`.
func Template() string {
	return `# arcgauge config
#
# [gauge]
# min = 0
# max = 100
# value = 0
# decimal = 1
# unit = "%"
# duration = 500        # milliseconds
# easing = "cubic-in-out" # or "linear"
# arc-thickness = 6
# threshold-arc-thickness = 3
# threshold-arc-hover-thickness = 3
# font-family = "Helvetica"
# meter-font-size = 10
# value-font-size = 20
# marker-y-offset = 3
# arc-back-fill-color = "#fafafa"
# arc-default-color = "#3fabd4"
# min-meter-font-color = "#fafafa"
# max-meter-font-color = "#fafafa"
# value-font-color = "#fafafa"
# low-threshold-color = "#e53935"
# high-threshold-color = "#e53935"
#
# [[gauge.thresholds]]
# name = "Too cold"
# value = 20
# type = "low"
# alarm = true
#
# [[gauge.thresholds]]
# name = "Too hot"
# value = 80
# type = "high"
# alarm = true
#
# [server]
# listen = ":8080"
# width = 300
# height = 180
`
}
