// Package gauge implements the arc gauge widget: configuration checks,
// layout, animation lanes, hover handling and frame assembly.
package gauge

import (
	"fmt"
	"math"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/arcgauge/internal/anim"
	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/hover"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/threshold"
)

// MaxDecimal is the largest accepted display precision.
const MaxDecimal = 100

// ClickFunc receives clicks in surface coordinates.
type ClickFunc func(x, y float64)

// Hooks observe widget activity. Nil funcs are skipped.
type Hooks struct {
	// OnUpdate runs after a value transition starts.
	OnUpdate func(value float64, superseded bool)
	// OnFrame runs after every frame handed to the surface.
	OnFrame func(frame Frame)
}

// Option customises a widget.
type Option func(*Widget)

// WithClock sets the time source used to start transitions.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the widget logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(w *Widget) {
		w.log = logger
	}
}

// WithHooks installs activity hooks.
func WithHooks(h Hooks) Option {
	return func(w *Widget) {
		w.hooks = h
	}
}

// State is a snapshot of the logical and animated gauge state.
type State struct {
	Value         float64 `json:"value"`
	DisplayValue  float64 `json:"displayValue"`
	Text          string  `json:"text"`
	Angle         float64 `json:"angle"`
	Color         string  `json:"color"`
	TargetColor   string  `json:"targetColor"`
	LowBandOuter  float64 `json:"lowBandOuter"`
	HighBandOuter float64 `json:"highBandOuter"`
	LowBand       string  `json:"lowBand"`
	HighBand      string  `json:"highBand"`
	Animating     bool    `json:"animating"`
}

// Widget is one arc gauge bound to a surface. It is not safe for
// concurrent use; hosts drive it from a single goroutine.
type Widget struct {
	cfg     model.GaugeConfig
	surface Surface
	now     func() time.Time
	log     *logrus.Logger
	hooks   Hooks

	scale  geom.Scale
	set    threshold.Set
	layout Layout
	eng    *engine
	hover  *hover.Controller

	targetColor colorful.Color
	onClick     ClickFunc
	disposed    bool
}

// prepared is a validated config with everything derived from it.
type prepared struct {
	cfg          model.GaugeConfig
	scale        geom.Scale
	ease         anim.Easing
	set          threshold.Set
	layout       Layout
	defaultColor colorful.Color
	fills        [fillCount]colorful.Color
}

// New validates cfg, lays the gauge out on surface and renders the first
// frame at the configured value. The initial value is clamped into range
// and is not animated.
func New(cfg model.GaugeConfig, surface Surface, opts ...Option) (*Widget, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: surface is nil", model.ErrInvalidOption)
	}
	w := &Widget{surface: surface, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logrus.New()
		w.log.SetLevel(logrus.WarnLevel)
	}

	p, err := prepare(cfg.Clone(), surface)
	if err != nil {
		return nil, err
	}
	p.cfg.Value = p.scale.Clamp(p.cfg.Value)
	w.install(p, p.defaultColor)
	if err := w.render(); err != nil {
		return nil, err
	}
	w.log.WithFields(logrus.Fields{
		"value":      p.cfg.Value,
		"thresholds": len(p.set.Bands),
		"outer":      p.layout.OuterRadius,
	}).Debug("Gauge constructed")
	return w, nil
}

func prepare(cfg model.GaugeConfig, surface Surface) (prepared, error) {
	p := prepared{}
	scale, err := geom.NewScale(cfg.Min, cfg.Max)
	if err != nil {
		return p, err
	}
	p.scale = scale

	for _, f := range []namedValue{
		{"arcThickness", cfg.ArcThickness},
		{"thresholdArcThickness", cfg.ThresholdArcThickness},
		{"thresholdArcHoverThickness", cfg.ThresholdArcHoverThickness},
	} {
		if !nonNegative(f.value) {
			return p, fmt.Errorf("%w: %s must be a non-negative number, got %v", model.ErrInvalidRadii, f.name, f.value)
		}
	}
	if cfg.Decimal < 0 || cfg.Decimal > MaxDecimal {
		return p, fmt.Errorf("%w: decimal must be within [0, %d], got %d", model.ErrInvalidOption, MaxDecimal, cfg.Decimal)
	}
	if cfg.Duration < 0 {
		return p, fmt.Errorf("%w: duration must not be negative, got %s", model.ErrInvalidOption, cfg.Duration)
	}
	if math.IsNaN(cfg.Value) || math.IsInf(cfg.Value, 0) {
		return p, fmt.Errorf("%w: value must be finite", model.ErrInvalidOption)
	}
	for _, f := range []namedValue{
		{"meterFontSize", cfg.MeterFontSize},
		{"valueFontSize", cfg.ValueFontSize},
		{"markerYOffset", cfg.MarkerYOffset},
	} {
		if !nonNegative(f.value) {
			return p, fmt.Errorf("%w: %s must be a non-negative number, got %v", model.ErrInvalidOption, f.name, f.value)
		}
	}
	if p.ease, err = anim.EasingByName(cfg.Easing); err != nil {
		return p, err
	}

	var low, high colorful.Color
	for _, field := range []struct {
		name  string
		value string
		dst   *colorful.Color
	}{
		{"arcBackFillColor", cfg.ArcBackFillColor, &p.fills[fillBackground]},
		{"arcDefaultColor", cfg.ArcDefaultColor, &p.defaultColor},
		{"minMeterFontColor", cfg.MinMeterFontColor, &p.fills[fillMinLabel]},
		{"maxMeterFontColor", cfg.MaxMeterFontColor, &p.fills[fillMaxLabel]},
		{"valueFontColor", cfg.ValueFontColor, &p.fills[fillValueLabel]},
		{"lowThresholdColor", cfg.LowThresholdColor, &low},
		{"highThresholdColor", cfg.HighThresholdColor, &high},
	} {
		c, err := anim.ParseColor(field.value)
		if err != nil {
			return p, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = c
	}

	set, err := threshold.Process(cfg.Thresholds, scale, threshold.Colors{
		Low:  anim.FormatColor(low),
		High: anim.FormatColor(high),
	})
	if err != nil {
		return p, err
	}
	p.set = set
	cfg.Thresholds = set.Thresholds

	if p.layout, err = ComputeLayout(cfg, surface, set.Enabled()); err != nil {
		return p, err
	}
	p.cfg = cfg
	return p, nil
}

type namedValue struct {
	name  string
	value float64
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// install replaces the widget's derived state with p, at rest on
// p.cfg.Value and valueColor.
func (w *Widget) install(p prepared, valueColor colorful.Color) {
	w.cfg = p.cfg
	w.scale = p.scale
	w.set = p.set
	w.layout = p.layout
	w.targetColor = valueColor
	w.eng = newEngine(p.cfg.Duration, p.ease, anim.ValueFrame{
		Angle: p.scale.Angle(p.cfg.Value),
		Text:  p.cfg.Value,
		Color: valueColor,
	}, p.layout.BandCollapsed, p.fills)

	var enabled [2]bool
	for _, side := range threshold.Sides {
		_, enabled[side] = p.set.HoverBand(side)
	}
	w.hover = hover.New(hover.Geometry{
		MidX:            p.layout.CenterX,
		CollapsedRadius: p.layout.BandCollapsed,
		ExpandedRadius:  p.layout.BandExpanded,
	}, enabled, w.eng)
}

func (w *Widget) alive() error {
	if w.disposed {
		return model.ErrDisposed
	}
	return nil
}

// Update re-targets the value and/or the foreground colour. An unfinished
// transition is replaced, starting from the values sampled now. Values
// outside the range animate to the nearest end but keep their text.
func (w *Widget) Update(opts model.UpdateOptions) error {
	if err := w.alive(); err != nil {
		return err
	}
	if opts.Value == nil && opts.Color == nil {
		return nil
	}
	value := w.cfg.Value
	if opts.Value != nil {
		if math.IsNaN(*opts.Value) || math.IsInf(*opts.Value, 0) {
			return fmt.Errorf("%w: value must be finite", model.ErrInvalidOption)
		}
		value = *opts.Value
	}
	color := w.targetColor
	if opts.Color != nil {
		c, err := anim.ParseColor(*opts.Color)
		if err != nil {
			return fmt.Errorf("color: %w", err)
		}
		color = c
	}

	w.cfg.Value = value
	w.targetColor = color
	superseded := w.retarget()
	w.log.WithFields(logrus.Fields{
		"value":      value,
		"color":      anim.FormatColor(color),
		"superseded": superseded,
	}).Debug("Value transition started")
	if w.hooks.OnUpdate != nil {
		w.hooks.OnUpdate(value, superseded)
	}
	return w.render()
}

func (w *Widget) retarget() bool {
	return w.eng.retarget(anim.ValueTarget{
		Angle: w.scale.Angle(w.cfg.Value),
		Text:  w.cfg.Value,
		Color: w.targetColor,
	}, w.now())
}

// UpdateColor cross-fades the given static colours. A new arcDefaultColor
// becomes the foreground target of the value lane.
func (w *Widget) UpdateColor(opts model.ColorOptions) error {
	if err := w.alive(); err != nil {
		return err
	}
	type change struct {
		name  string
		value *string
		field *string
		fill  fill
		color colorful.Color
	}
	changes := []change{
		{name: "arcBackFillColor", value: opts.ArcBackFillColor, field: &w.cfg.ArcBackFillColor, fill: fillBackground},
		{name: "arcDefaultColor", value: opts.ArcDefaultColor, field: &w.cfg.ArcDefaultColor, fill: fillCount},
		{name: "minMeterFontColor", value: opts.MinMeterFontColor, field: &w.cfg.MinMeterFontColor, fill: fillMinLabel},
		{name: "maxMeterFontColor", value: opts.MaxMeterFontColor, field: &w.cfg.MaxMeterFontColor, fill: fillMaxLabel},
		{name: "valueFontColor", value: opts.ValueFontColor, field: &w.cfg.ValueFontColor, fill: fillValueLabel},
	}
	for i := range changes {
		if changes[i].value == nil {
			continue
		}
		c, err := anim.ParseColor(*changes[i].value)
		if err != nil {
			return fmt.Errorf("%s: %w", changes[i].name, err)
		}
		changes[i].color = c
	}

	now := w.now()
	for _, ch := range changes {
		if ch.value == nil {
			continue
		}
		*ch.field = *ch.value
		if ch.fill == fillCount {
			w.targetColor = ch.color
			w.retarget()
		} else {
			w.eng.animateFill(ch.fill, ch.color, now)
		}
		w.log.WithFields(logrus.Fields{"field": ch.name, "color": *ch.value}).Debug("Colour transition started")
	}
	return w.render()
}

// SetDecimal changes the display precision and redraws the current text
// without animating.
func (w *Widget) SetDecimal(n int) error {
	if err := w.alive(); err != nil {
		return err
	}
	if n < 0 || n > MaxDecimal {
		return fmt.Errorf("%w: decimal must be within [0, %d], got %d", model.ErrInvalidOption, MaxDecimal, n)
	}
	w.cfg.Decimal = n
	return w.render()
}

// Redraw rebuilds the gauge from its current configuration, typically after
// the surface changed size. Transitions in flight jump to their targets and
// both bands collapse. On error the widget keeps its previous layout.
func (w *Widget) Redraw() error {
	if err := w.alive(); err != nil {
		return err
	}
	p, err := prepare(w.cfg.Clone(), w.surface)
	if err != nil {
		return err
	}
	w.install(p, w.targetColor)
	w.log.WithFields(logrus.Fields{
		"width":  p.layout.Width,
		"height": p.layout.Height,
		"outer":  p.layout.OuterRadius,
	}).Debug("Gauge redrawn")
	return w.render()
}

// Destroy stops every transition and detaches the surface. Every later
// call, Destroy included, fails with model.ErrDisposed.
func (w *Widget) Destroy() error {
	if err := w.alive(); err != nil {
		return err
	}
	w.disposed = true
	w.eng.stop()
	w.onClick = nil
	w.log.Debug("Gauge destroyed")
	return w.surface.Detach()
}

// OnInteraction registers the click handler, replacing any previous one.
func (w *Widget) OnInteraction(fn ClickFunc) error {
	if err := w.alive(); err != nil {
		return err
	}
	if fn == nil {
		return model.ErrNotCallable
	}
	w.onClick = fn
	return nil
}

// PointerMove feeds a pointer position in surface coordinates.
func (w *Widget) PointerMove(x, y float64) error {
	if err := w.alive(); err != nil {
		return err
	}
	if !w.set.Enabled() {
		return nil
	}
	before := w.tooltipState()
	w.hover.Move(x, w.now())
	if w.tooltipState() == before {
		return nil
	}
	return w.render()
}

// PointerLeave reports that the pointer left the gauge.
func (w *Widget) PointerLeave() error {
	if err := w.alive(); err != nil {
		return err
	}
	if !w.set.Enabled() {
		return nil
	}
	before := w.tooltipState()
	w.hover.Leave(w.now())
	if w.tooltipState() == before {
		return nil
	}
	return w.render()
}

func (w *Widget) tooltipState() [2]bool {
	return [2]bool{w.hover.TooltipVisible(threshold.SideLow), w.hover.TooltipVisible(threshold.SideHigh)}
}

// Click forwards a click to the registered handler.
func (w *Widget) Click(x, y float64) error {
	if err := w.alive(); err != nil {
		return err
	}
	if w.onClick != nil {
		w.onClick(x, y)
	}
	return nil
}

// Tick advances every transition to now and renders when anything was in
// flight. It reports whether more ticks are needed.
func (w *Widget) Tick(now time.Time) (bool, error) {
	if err := w.alive(); err != nil {
		return false, err
	}
	if !w.eng.animating() {
		return false, nil
	}
	animating := w.eng.step(now)
	return animating, w.render()
}

// Animating reports whether any transition is in flight.
func (w *Widget) Animating() bool {
	return !w.disposed && w.eng.animating()
}

// FormatValue formats v with the current precision and unit.
func (w *Widget) FormatValue(v float64) string {
	return w.formatter().Format(v)
}

func (w *Widget) formatter() Formatter {
	return Formatter{Decimal: w.cfg.Decimal, Unit: w.cfg.Unit}
}

// Config returns a copy of the current configuration. Thresholds are
// normalised and sorted.
func (w *Widget) Config() (model.GaugeConfig, error) {
	if err := w.alive(); err != nil {
		return model.GaugeConfig{}, err
	}
	return w.cfg.Clone(), nil
}

// Layout returns the current layout.
func (w *Widget) Layout() (Layout, error) {
	if err := w.alive(); err != nil {
		return Layout{}, err
	}
	return w.layout, nil
}

// State returns a snapshot of the gauge state as last sampled.
func (w *Widget) State() (State, error) {
	if err := w.alive(); err != nil {
		return State{}, err
	}
	cur := w.eng.cur
	return State{
		Value:         w.cfg.Value,
		DisplayValue:  cur.Text,
		Text:          w.FormatValue(cur.Text),
		Angle:         cur.Angle,
		Color:         anim.FormatColor(cur.Color),
		TargetColor:   anim.FormatColor(w.targetColor),
		LowBandOuter:  w.eng.bandOuter[threshold.SideLow],
		HighBandOuter: w.eng.bandOuter[threshold.SideHigh],
		LowBand:       w.hover.State(threshold.SideLow).String(),
		HighBand:      w.hover.State(threshold.SideHigh).String(),
		Animating:     w.eng.animating(),
	}, nil
}

// Frame assembles the frame for the last sampled state without rendering.
func (w *Widget) Frame() (Frame, error) {
	if err := w.alive(); err != nil {
		return Frame{}, err
	}
	return w.buildFrame()
}

func (w *Widget) render() error {
	frame, err := w.buildFrame()
	if err != nil {
		return err
	}
	if err := w.surface.Render(frame); err != nil {
		w.log.WithError(err).Warn("Surface render failed")
		return err
	}
	if w.hooks.OnFrame != nil {
		w.hooks.OnFrame(frame)
	}
	return nil
}
