// Package threshold turns alarm threshold definitions into renderable bands.
package threshold

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/model"
)

// Side identifies one of the two hover regions of a gauge.
type Side int

const (
	SideLow Side = iota
	SideHigh
)

// Sides lists both sides in drawing order.
var Sides = [2]Side{SideLow, SideHigh}

func (s Side) String() string {
	switch s {
	case SideLow:
		return model.ThresholdLow
	case SideHigh:
		return model.ThresholdHigh
	default:
		return "unknown"
	}
}

// Band is the annular region drawn outside the main arc for one alarm threshold.
type Band struct {
	Spec       model.ThresholdSpec
	Side       Side
	Color      string
	StartAngle float64
	EndAngle   float64
	// Hover is set on the first band of each side; only those bands expand.
	Hover bool
}

// TooltipText is the text shown while the band is expanded.
func (b Band) TooltipText() string {
	return fmt.Sprintf("Name: %s\nValue: %s\nType: %s", b.Spec.Name, geom.FormatNumber(b.Spec.Value), b.Spec.Type)
}

// Colors holds the fill colour per side.
type Colors struct {
	Low  string
	High string
}

// Set is the processed form of a threshold list.
type Set struct {
	// Thresholds holds every threshold, normalised and sorted by value.
	Thresholds []model.ThresholdSpec
	// Alarms is the alarm-flagged subset of Thresholds, same order.
	Alarms []model.ThresholdSpec
	Bands  []Band
}

// Enabled reports whether threshold rendering is on, i.e. any alarm exists.
func (s Set) Enabled() bool {
	return len(s.Alarms) > 0
}

// HoverBand returns the band that reacts to hover on the given side.
func (s Set) HoverBand(side Side) (Band, bool) {
	for _, b := range s.Bands {
		if b.Side == side && b.Hover {
			return b, true
		}
	}
	return Band{}, false
}

// Normalize validates the list, lowercases every type and sorts by value.
// Ties keep their input order. The input slice is not modified.
func Normalize(specs []model.ThresholdSpec) ([]model.ThresholdSpec, error) {
	out := make([]model.ThresholdSpec, 0, len(specs))
	for i, spec := range specs {
		spec.Type = strings.ToLower(strings.TrimSpace(spec.Type))
		if spec.Type == "" {
			return nil, fmt.Errorf("%w: threshold %d (%q) has no type", model.ErrInvalidThreshold, i, spec.Name)
		}
		if math.IsNaN(spec.Value) || math.IsInf(spec.Value, 0) {
			return nil, fmt.Errorf("%w: threshold %d (%q) has no usable value", model.ErrInvalidThreshold, i, spec.Name)
		}
		out = append(out, spec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// Process normalises specs and builds one band per alarm threshold of type
// low or high. Values outside the scale clamp to the gauge ends. Other
// types are kept in the set but draw nothing.
func Process(specs []model.ThresholdSpec, scale geom.Scale, colors Colors) (Set, error) {
	sorted, err := Normalize(specs)
	if err != nil {
		return Set{}, err
	}
	set := Set{Thresholds: sorted}
	var seen [2]bool
	for _, spec := range sorted {
		if !spec.Alarm {
			continue
		}
		set.Alarms = append(set.Alarms, spec)

		var band Band
		switch spec.Type {
		case model.ThresholdLow:
			band = Band{Side: SideLow, Color: colors.Low, StartAngle: geom.BaseAngle, EndAngle: scale.Angle(spec.Value)}
		case model.ThresholdHigh:
			band = Band{Side: SideHigh, Color: colors.High, StartAngle: scale.Angle(spec.Value), EndAngle: geom.TopAngle}
		default:
			continue
		}
		band.Spec = spec
		band.Hover = !seen[band.Side]
		seen[band.Side] = true
		set.Bands = append(set.Bands, band)
	}
	return set, nil
}
