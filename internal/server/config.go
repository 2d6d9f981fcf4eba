package server

import "github.com/verte-zerg/arcgauge/internal/model"

type configView struct {
	Min                        float64               `json:"min"`
	Max                        float64               `json:"max"`
	Value                      float64               `json:"value"`
	ArcThickness               float64               `json:"arcThickness"`
	ThresholdArcThickness      float64               `json:"thresholdArcThickness"`
	ThresholdArcHoverThickness float64               `json:"thresholdArcHoverThickness"`
	Decimal                    int                   `json:"decimal"`
	Unit                       string                `json:"unit"`
	DurationMS                 int64                 `json:"duration"`
	Easing                     string                `json:"easing"`
	FontFamily                 string                `json:"fontFamily"`
	MeterFontSize              float64               `json:"meterFontSize"`
	ValueFontSize              float64               `json:"valueFontSize"`
	MarkerYOffset              float64               `json:"markerYOffset"`
	ArcBackFillColor           string                `json:"arcBackFillColor"`
	ArcDefaultColor            string                `json:"arcDefaultColor"`
	MinMeterFontColor          string                `json:"minMeterFontColor"`
	MaxMeterFontColor          string                `json:"maxMeterFontColor"`
	ValueFontColor             string                `json:"valueFontColor"`
	LowThresholdColor          string                `json:"lowThresholdColor"`
	HighThresholdColor         string                `json:"highThresholdColor"`
	Thresholds                 []model.ThresholdSpec `json:"thresholds"`
}

func newConfigView(cfg model.GaugeConfig) configView {
	thresholds := cfg.Thresholds
	if thresholds == nil {
		thresholds = []model.ThresholdSpec{}
	}
	return configView{
		Min:                        cfg.Min,
		Max:                        cfg.Max,
		Value:                      cfg.Value,
		ArcThickness:               cfg.ArcThickness,
		ThresholdArcThickness:      cfg.ThresholdArcThickness,
		ThresholdArcHoverThickness: cfg.ThresholdArcHoverThickness,
		Decimal:                    cfg.Decimal,
		Unit:                       cfg.Unit,
		DurationMS:                 cfg.Duration.Milliseconds(),
		Easing:                     cfg.Easing,
		FontFamily:                 cfg.FontFamily,
		MeterFontSize:              cfg.MeterFontSize,
		ValueFontSize:              cfg.ValueFontSize,
		MarkerYOffset:              cfg.MarkerYOffset,
		ArcBackFillColor:           cfg.ArcBackFillColor,
		ArcDefaultColor:            cfg.ArcDefaultColor,
		MinMeterFontColor:          cfg.MinMeterFontColor,
		MaxMeterFontColor:          cfg.MaxMeterFontColor,
		ValueFontColor:             cfg.ValueFontColor,
		LowThresholdColor:          cfg.LowThresholdColor,
		HighThresholdColor:         cfg.HighThresholdColor,
		Thresholds:                 thresholds,
	}
}
