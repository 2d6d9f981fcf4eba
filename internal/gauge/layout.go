package gauge

import (
	"fmt"
	"math"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/model"
)

const (
	// foregroundBleed widens the value arc so it covers the background edge.
	foregroundBleed = 0.3
	maxLabelNudge   = 3
	tooltipOffset   = -20
	tooltipLift     = 20
)

// Layout is the measured placement of a gauge on its surface.
type Layout struct {
	Width       float64
	Height      float64
	CenterX     float64
	CenterY     float64
	OuterRadius float64
	InnerRadius float64
	// LabelX is the distance of the min/max labels from the centre line.
	LabelX float64
	LabelY float64
	// Band radii; bands start at OuterRadius.
	BandCollapsed float64
	BandExpanded  float64
}

func meterStyle(cfg model.GaugeConfig) TextStyle {
	return TextStyle{FontFamily: cfg.FontFamily, FontSize: cfg.MeterFontSize}
}

func valueStyle(cfg model.GaugeConfig) TextStyle {
	return TextStyle{FontFamily: cfg.FontFamily, FontSize: cfg.ValueFontSize}
}

// ComputeLayout fits the arc into the surface, leaving room for the min/max
// labels and, when bandsEnabled, for expanded threshold bands.
func ComputeLayout(cfg model.GaugeConfig, s Surface, bandsEnabled bool) (Layout, error) {
	width, height := s.Size()
	style := meterStyle(cfg)
	minW, minH := s.MeasureText(geom.FormatNumber(cfg.Min), style)
	maxW, maxH := s.MeasureText(geom.FormatNumber(cfg.Max), style)

	meterXOffset := math.Max(0, math.Max(minW, maxW)-cfg.ArcThickness)
	possibleWidth := width - meterXOffset
	possibleHeight := height - (math.Max(minH, maxH) + cfg.MarkerYOffset)

	allowance := 0.0
	if bandsEnabled {
		allowance = cfg.ThresholdArcThickness + cfg.ThresholdArcHoverThickness
		possibleWidth -= allowance
		possibleHeight -= allowance
	}

	outer := math.Min(possibleWidth/2, possibleHeight)
	inner := outer - cfg.ArcThickness
	if !(outer > 0) || inner < 0 || math.IsInf(outer, 0) {
		return Layout{}, fmt.Errorf("%w: inner %s, outer %s on a %sx%s surface", model.ErrInvalidRadii,
			geom.FormatNumber(inner), geom.FormatNumber(outer), geom.FormatNumber(width), geom.FormatNumber(height))
	}

	l := Layout{
		Width:         width,
		Height:        height,
		OuterRadius:   outer,
		InnerRadius:   inner,
		LabelX:        (outer-inner)/2 + inner,
		LabelY:        cfg.MeterFontSize + cfg.MarkerYOffset,
		BandCollapsed: outer + cfg.ThresholdArcThickness,
		BandExpanded:  outer + cfg.ThresholdArcThickness + cfg.ThresholdArcHoverThickness,
	}

	top := outer
	if bandsEnabled {
		top += cfg.ThresholdArcThickness
	}
	groupHeight := top + l.LabelY
	l.CenterX = width / 2
	l.CenterY = math.Max(outer, outer+(height/2-groupHeight/2)) + allowance
	return l, nil
}
