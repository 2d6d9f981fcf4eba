// Package model defines shared data structures.
package model

import "time"

// Threshold types understood by the band builder.
const (
	ThresholdLow  = "low"
	ThresholdHigh = "high"
)

// Easing names accepted by GaugeConfig.Easing.
const (
	EasingCubicInOut = "cubic-in-out"
	EasingLinear     = "linear"
)

// GaugeConfig defines one arc gauge. It is owned by a single widget and is
// never mutated through a shared defaults value.
type GaugeConfig struct {
	Min   float64
	Max   float64
	Value float64

	ArcThickness               float64
	ThresholdArcThickness      float64
	ThresholdArcHoverThickness float64

	Decimal  int
	Unit     string
	Duration time.Duration
	Easing   string

	FontFamily    string
	MeterFontSize float64
	ValueFontSize float64
	MarkerYOffset float64

	ArcBackFillColor   string
	ArcDefaultColor    string
	MinMeterFontColor  string
	MaxMeterFontColor  string
	ValueFontColor     string
	LowThresholdColor  string
	HighThresholdColor string

	Thresholds []ThresholdSpec
}

// ThresholdSpec is one alarm threshold as supplied by the user.
type ThresholdSpec struct {
	Name  string  `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Value float64 `json:"value" yaml:"value" toml:"value" msgpack:"value"`
	Type  string  `json:"type" yaml:"type" toml:"type" msgpack:"type"`
	Alarm bool    `json:"alarm" yaml:"alarm" toml:"alarm" msgpack:"alarm"`
}

// DefaultGaugeConfig returns a fresh config holding the stock defaults.
func DefaultGaugeConfig() GaugeConfig {
	return GaugeConfig{
		Min:                        0,
		Max:                        100,
		Value:                      0,
		ArcThickness:               6,
		ThresholdArcThickness:      3,
		ThresholdArcHoverThickness: 3,
		Decimal:                    1,
		Duration:                   500 * time.Millisecond,
		Easing:                     EasingCubicInOut,
		FontFamily:                 "Helvetica",
		MeterFontSize:              10,
		ValueFontSize:              20,
		MarkerYOffset:              3,
		ArcBackFillColor:           "#fafafa",
		ArcDefaultColor:            "#3fabd4",
		MinMeterFontColor:          "#fafafa",
		MaxMeterFontColor:          "#fafafa",
		ValueFontColor:             "#fafafa",
		LowThresholdColor:          "#e53935",
		HighThresholdColor:         "#e53935",
	}
}

// Clone returns a deep copy of the config.
func (c GaugeConfig) Clone() GaugeConfig {
	out := c
	if c.Thresholds != nil {
		out.Thresholds = make([]ThresholdSpec, len(c.Thresholds))
		copy(out.Thresholds, c.Thresholds)
	}
	return out
}

// UpdateOptions re-targets the value and/or the foreground colour. Nil
// fields are left unchanged.
type UpdateOptions struct {
	Value *float64 `json:"value,omitempty"`
	Color *string  `json:"color,omitempty"`
}

// ColorOptions re-targets static colour fields. Nil fields are left unchanged.
type ColorOptions struct {
	ArcBackFillColor  *string `json:"arcBackFillColor,omitempty"`
	ArcDefaultColor   *string `json:"arcDefaultColor,omitempty"`
	MinMeterFontColor *string `json:"minMeterFontColor,omitempty"`
	MaxMeterFontColor *string `json:"maxMeterFontColor,omitempty"`
	ValueFontColor    *string `json:"valueFontColor,omitempty"`
}

// Sample is one recorded update request.
type Sample struct {
	Session string
	At      time.Time
	Value   *float64
	Color   *string
}

// SessionSummary describes one recording session.
type SessionSummary struct {
	Session   string
	StartedAt time.Time
	EndedAt   time.Time
	Samples   int
}

// HistoryConfig defines filters for the history report.
type HistoryConfig struct {
	Session string
	Last    int
}
