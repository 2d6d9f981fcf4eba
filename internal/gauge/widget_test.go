package gauge

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/model"
)

type fakeSurface struct {
	width    float64
	height   float64
	frames   []Frame
	detached int
	err      error
}

func newSurface() *fakeSurface {
	return &fakeSurface{width: 200, height: 120}
}

func (s *fakeSurface) Size() (float64, float64) { return s.width, s.height }

func (s *fakeSurface) MeasureText(text string, style TextStyle) (float64, float64) {
	return float64(len(text)) * style.FontSize * 0.6, style.FontSize
}

func (s *fakeSurface) Render(frame Frame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, frame)
	return nil
}

func (s *fakeSurface) Detach() error {
	s.detached++
	return nil
}

func (s *fakeSurface) last() Frame {
	return s.frames[len(s.frames)-1]
}

type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time { return c.t }

func (c *manualClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func newClock() *manualClock {
	return &manualClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func ptr[T any](v T) *T { return &v }

func bandConfig() model.GaugeConfig {
	cfg := model.DefaultGaugeConfig()
	cfg.Thresholds = []model.ThresholdSpec{
		{Name: "overheat", Value: 80, Type: "HIGH", Alarm: true},
		{Name: "freeze", Value: 20, Type: "Low", Alarm: true},
		{Name: "notice", Value: 50, Type: "low", Alarm: false},
	}
	return cfg
}

func newWidget(t *testing.T, cfg model.GaugeConfig) (*Widget, *fakeSurface, *manualClock) {
	t.Helper()
	s := newSurface()
	c := newClock()
	w, err := New(cfg, s, WithClock(c.Now))
	require.NoError(t, err)
	return w, s, c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.GaugeConfig)
		want   error
	}{
		{"degenerate range", func(c *model.GaugeConfig) { c.Min, c.Max = 5, 5 }, model.ErrDegenerateRange},
		{"inverted range", func(c *model.GaugeConfig) { c.Min, c.Max = 10, 1 }, model.ErrDegenerateRange},
		{"negative thickness", func(c *model.GaugeConfig) { c.ArcThickness = -1 }, model.ErrInvalidRadii},
		{"thickness beyond radius", func(c *model.GaugeConfig) { c.ArcThickness = 500 }, model.ErrInvalidRadii},
		{"negative decimal", func(c *model.GaugeConfig) { c.Decimal = -1 }, model.ErrInvalidOption},
		{"negative duration", func(c *model.GaugeConfig) { c.Duration = -time.Second }, model.ErrInvalidOption},
		{"unknown easing", func(c *model.GaugeConfig) { c.Easing = "elastic" }, model.ErrInvalidOption},
		{"bad colour", func(c *model.GaugeConfig) { c.ValueFontColor = "white" }, model.ErrInvalidColor},
		{"typeless threshold", func(c *model.GaugeConfig) {
			c.Thresholds = []model.ThresholdSpec{{Name: "x", Value: 1, Alarm: true}}
		}, model.ErrInvalidThreshold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := model.DefaultGaugeConfig()
			tc.mutate(&cfg)
			s := newSurface()
			_, err := New(cfg, s)
			require.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, model.ErrConfiguration)
			assert.Empty(t, s.frames)
		})
	}
}

func TestNewRejectsTinySurface(t *testing.T) {
	s := &fakeSurface{width: 10, height: 10}
	_, err := New(model.DefaultGaugeConfig(), s)
	require.ErrorIs(t, err, model.ErrInvalidRadii)
}

func TestLayout(t *testing.T) {
	w, _, _ := newWidget(t, model.DefaultGaugeConfig())
	l, err := w.Layout()
	require.NoError(t, err)
	assert.Equal(t, Layout{
		Width:         200,
		Height:        120,
		CenterX:       100,
		CenterY:       100.5,
		OuterRadius:   94,
		InnerRadius:   88,
		LabelX:        91,
		LabelY:        13,
		BandCollapsed: 97,
		BandExpanded:  100,
	}, l)

	w, _, _ = newWidget(t, bandConfig())
	l, err = w.Layout()
	require.NoError(t, err)
	assert.Equal(t, 91.0, l.OuterRadius)
	assert.Equal(t, 85.0, l.InnerRadius)
	assert.Equal(t, 103.5, l.CenterY)
	assert.Equal(t, 94.0, l.BandCollapsed)
	assert.Equal(t, 97.0, l.BandExpanded)
}

func TestInitialValueIsClampedAndStatic(t *testing.T) {
	cfg := model.DefaultGaugeConfig()
	cfg.Value = 150
	w, s, _ := newWidget(t, cfg)

	got, err := w.Config()
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Value)

	st, err := w.State()
	require.NoError(t, err)
	assert.Equal(t, geom.TopAngle, st.Angle)
	assert.Equal(t, "100.0", st.Text)
	assert.False(t, w.Animating())
	require.Len(t, s.frames, 1)
	assert.Equal(t, "#3fabd4", s.last().Foreground.Fill)
	assert.Equal(t, "0", s.last().MinLabel.Text)
	assert.Equal(t, "100", s.last().MaxLabel.Text)
}

func TestUpdateCommitsExactTarget(t *testing.T) {
	w, s, c := newWidget(t, model.DefaultGaugeConfig())
	scale, err := geom.NewScale(0, 100)
	require.NoError(t, err)

	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(75.0)}))
	assert.True(t, w.Animating())

	animating, err := w.Tick(c.advance(200 * time.Millisecond))
	require.NoError(t, err)
	assert.True(t, animating)
	st, _ := w.State()
	assert.Greater(t, st.Angle, geom.BaseAngle)
	assert.Less(t, st.Angle, scale.Angle(75))

	animating, err = w.Tick(c.advance(400 * time.Millisecond))
	require.NoError(t, err)
	assert.False(t, animating)

	st, err = w.State()
	require.NoError(t, err)
	assert.Equal(t, 75.0, st.Value)
	assert.Equal(t, 75.0, st.DisplayValue)
	assert.Equal(t, scale.Angle(75), st.Angle)
	assert.Equal(t, "75.0", s.last().ValueLabel.Text)
	assert.False(t, s.last().Animating)

	frames := len(s.frames)
	animating, err = w.Tick(c.advance(time.Second))
	require.NoError(t, err)
	assert.False(t, animating)
	assert.Len(t, s.frames, frames)
}

func TestUpdateSupersedesWithoutJump(t *testing.T) {
	var superseded []bool
	s := newSurface()
	c := newClock()
	w, err := New(model.DefaultGaugeConfig(), s, WithClock(c.Now), WithHooks(Hooks{
		OnUpdate: func(_ float64, sup bool) { superseded = append(superseded, sup) },
	}))
	require.NoError(t, err)
	scale, _ := geom.NewScale(0, 100)

	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(50.0)}))
	_, err = w.Tick(c.advance(250 * time.Millisecond))
	require.NoError(t, err)
	mid, _ := w.State()
	assert.InDelta(t, scale.Angle(25), mid.Angle, 1e-9)

	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(90.0)}))
	restarted, _ := w.State()
	assert.Equal(t, mid.Angle, restarted.Angle)
	assert.Equal(t, mid.DisplayValue, restarted.DisplayValue)
	assert.Equal(t, 90.0, restarted.Value)

	_, err = w.Tick(c.advance(time.Millisecond))
	require.NoError(t, err)
	next, _ := w.State()
	assert.Greater(t, next.Angle, mid.Angle)
	assert.Less(t, next.Angle-mid.Angle, 0.01)

	_, err = w.Tick(c.advance(500 * time.Millisecond))
	require.NoError(t, err)
	done, _ := w.State()
	assert.Equal(t, scale.Angle(90), done.Angle)
	assert.Equal(t, []bool{false, true}, superseded)
}

func TestZeroDurationCommitsImmediately(t *testing.T) {
	cfg := model.DefaultGaugeConfig()
	cfg.Duration = 0
	w, s, _ := newWidget(t, cfg)

	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(40.0), Color: ptr("#00ff00")}))
	assert.False(t, w.Animating())
	assert.Equal(t, "40.0", s.last().ValueLabel.Text)
	assert.Equal(t, "#00ff00", s.last().Foreground.Fill)
	assert.Len(t, s.frames, 2)
}

func TestUpdateOutOfRangeClampsAngleOnly(t *testing.T) {
	cfg := model.DefaultGaugeConfig()
	cfg.Duration = 0
	w, s, _ := newWidget(t, cfg)

	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(-20.0)}))
	st, _ := w.State()
	assert.Equal(t, geom.BaseAngle, st.Angle)
	assert.Equal(t, "-20.0", s.last().ValueLabel.Text)

	err := w.Update(model.UpdateOptions{Value: ptr(math.NaN())})
	assert.ErrorIs(t, err, model.ErrInvalidOption)
}

func TestUpdateColorOnlyKeepsValue(t *testing.T) {
	cfg := model.DefaultGaugeConfig()
	cfg.Value = 30
	w, s, c := newWidget(t, cfg)

	require.NoError(t, w.Update(model.UpdateOptions{Color: ptr("#000000")}))
	st, _ := w.State()
	assert.Equal(t, "#3fabd4", st.Color)
	assert.Equal(t, "#000000", st.TargetColor)

	_, err := w.Tick(c.advance(250 * time.Millisecond))
	require.NoError(t, err)
	assert.NotEqual(t, "#3fabd4", s.last().Foreground.Fill)
	assert.NotEqual(t, "#000000", s.last().Foreground.Fill)

	_, err = w.Tick(c.advance(250 * time.Millisecond))
	require.NoError(t, err)
	st, _ = w.State()
	assert.Equal(t, "#000000", st.Color)
	assert.Equal(t, 30.0, st.Value)
	assert.Equal(t, "30.0", st.Text)
}

func TestUpdateValidatesBeforeApplying(t *testing.T) {
	w, s, _ := newWidget(t, model.DefaultGaugeConfig())
	err := w.Update(model.UpdateOptions{Value: ptr(10.0), Color: ptr("nope")})
	require.ErrorIs(t, err, model.ErrInvalidColor)
	st, _ := w.State()
	assert.Equal(t, 0.0, st.Value)
	assert.False(t, w.Animating())
	assert.Len(t, s.frames, 1)
}

func TestEmptyUpdateIsNoop(t *testing.T) {
	w, s, _ := newWidget(t, model.DefaultGaugeConfig())
	require.NoError(t, w.Update(model.UpdateOptions{}))
	assert.Len(t, s.frames, 1)
	assert.False(t, w.Animating())
}

func TestUpdateColorFades(t *testing.T) {
	w, s, c := newWidget(t, model.DefaultGaugeConfig())

	require.NoError(t, w.UpdateColor(model.ColorOptions{
		ArcBackFillColor: ptr("#000000"),
		ArcDefaultColor:  ptr("#ff0000"),
		ValueFontColor:   ptr("#123456"),
	}))
	cfg, _ := w.Config()
	assert.Equal(t, "#000000", cfg.ArcBackFillColor)
	assert.Equal(t, "#ff0000", cfg.ArcDefaultColor)
	assert.Equal(t, "#123456", cfg.ValueFontColor)
	assert.Equal(t, "#fafafa", s.last().Background.Fill)

	_, err := w.Tick(c.advance(250 * time.Millisecond))
	require.NoError(t, err)
	assert.NotEqual(t, "#fafafa", s.last().Background.Fill)
	assert.NotEqual(t, "#000000", s.last().Background.Fill)

	animating, err := w.Tick(c.advance(250 * time.Millisecond))
	require.NoError(t, err)
	assert.False(t, animating)
	f := s.last()
	assert.Equal(t, "#000000", f.Background.Fill)
	assert.Equal(t, "#ff0000", f.Foreground.Fill)
	assert.Equal(t, "#123456", f.ValueLabel.Fill)
	assert.Equal(t, "#fafafa", f.MinLabel.Fill)

	err = w.UpdateColor(model.ColorOptions{MinMeterFontColor: ptr("#ggg")})
	assert.ErrorIs(t, err, model.ErrInvalidColor)
	assert.False(t, w.Animating())
}

func TestHoverExpandsOneBandAtATime(t *testing.T) {
	w, s, c := newWidget(t, bandConfig())
	l, _ := w.Layout()

	require.Len(t, s.last().Bands, 2)
	assert.Equal(t, "low", s.last().Bands[0].Side)
	assert.Equal(t, "high", s.last().Bands[1].Side)

	require.NoError(t, w.PointerMove(20, 50))
	st, _ := w.State()
	assert.Equal(t, "expanded", st.LowBand)
	assert.Equal(t, "collapsed", st.HighBand)
	require.Len(t, s.last().Tooltips, 2)
	assert.True(t, s.last().Tooltips[0].Visible)
	assert.False(t, s.last().Tooltips[1].Visible)
	assert.Equal(t, "Name: freeze\nValue: 20\nType: low", s.last().Tooltips[0].Text)

	_, err := w.Tick(c.advance(100 * time.Millisecond))
	require.NoError(t, err)
	st, _ = w.State()
	assert.InDelta(t, (l.BandCollapsed+l.BandExpanded)/2, st.LowBandOuter, 1e-9)

	_, err = w.Tick(c.advance(100 * time.Millisecond))
	require.NoError(t, err)
	st, _ = w.State()
	assert.Equal(t, l.BandExpanded, st.LowBandOuter)
	assert.Equal(t, l.BandCollapsed, st.HighBandOuter)

	require.NoError(t, w.PointerMove(180, 50))
	st, _ = w.State()
	assert.Equal(t, "collapsed", st.LowBand)
	assert.Equal(t, "expanded", st.HighBand)
	assert.False(t, s.last().Tooltips[0].Visible)
	assert.True(t, s.last().Tooltips[1].Visible)

	frames := len(s.frames)
	require.NoError(t, w.PointerMove(l.CenterX, 50))
	assert.Len(t, s.frames, frames)

	require.NoError(t, w.PointerLeave())
	st, _ = w.State()
	assert.Equal(t, "collapsed", st.LowBand)
	assert.Equal(t, "collapsed", st.HighBand)
	assert.False(t, s.last().Tooltips[1].Visible)

	_, err = w.Tick(c.advance(time.Second))
	require.NoError(t, err)
	st, _ = w.State()
	assert.Equal(t, l.BandCollapsed, st.LowBandOuter)
	assert.Equal(t, l.BandCollapsed, st.HighBandOuter)
}

func TestHoverRunsAlongsideValueTransition(t *testing.T) {
	w, _, c := newWidget(t, bandConfig())
	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(60.0)}))
	_, err := w.Tick(c.advance(100 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.PointerMove(10, 10))

	_, err = w.Tick(c.advance(400 * time.Millisecond))
	require.NoError(t, err)
	st, _ := w.State()
	assert.Equal(t, 60.0, st.DisplayValue)
	assert.Equal(t, "expanded", st.LowBand)
	assert.False(t, w.Animating())
}

func TestOnlyFirstBandPerSideHovers(t *testing.T) {
	cfg := bandConfig()
	cfg.Thresholds = append(cfg.Thresholds, model.ThresholdSpec{Name: "cold", Value: 10, Type: "low", Alarm: true})
	w, s, c := newWidget(t, cfg)
	l, _ := w.Layout()

	require.NoError(t, w.PointerMove(5, 5))
	_, err := w.Tick(c.advance(time.Second))
	require.NoError(t, err)

	bands := s.last().Bands
	require.Len(t, bands, 3)
	assert.Equal(t, "cold", bands[0].Name)
	assert.True(t, bands[0].Hover)
	assert.Equal(t, l.BandExpanded, bands[0].Arc.OuterRadius)
	assert.Equal(t, "freeze", bands[1].Name)
	assert.False(t, bands[1].Hover)
	assert.Equal(t, l.BandCollapsed, bands[1].Arc.OuterRadius)
}

func TestPointerWithoutThresholdsIsQuiet(t *testing.T) {
	w, s, _ := newWidget(t, model.DefaultGaugeConfig())
	require.NoError(t, w.PointerMove(1, 1))
	require.NoError(t, w.PointerLeave())
	assert.Len(t, s.frames, 1)
	assert.Empty(t, s.last().Tooltips)
}

func TestRedrawIsIdempotent(t *testing.T) {
	cfg := bandConfig()
	cfg.Decimal = 3
	cfg.Value = 42
	w, _, _ := newWidget(t, cfg)

	before, err := w.Config()
	require.NoError(t, err)
	frameBefore, err := w.Frame()
	require.NoError(t, err)

	require.NoError(t, w.Redraw())
	after, err := w.Config()
	require.NoError(t, err)
	frameAfter, err := w.Frame()
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, frameBefore, frameAfter)
	assert.Equal(t, []string{"low", "low", "high"}, []string{after.Thresholds[0].Type, after.Thresholds[1].Type, after.Thresholds[2].Type})
}

func TestRedrawCommitsTargetsAndFollowsSize(t *testing.T) {
	w, s, c := newWidget(t, bandConfig())
	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(70.0)}))
	require.NoError(t, w.PointerMove(1, 1))
	_, err := w.Tick(c.advance(100 * time.Millisecond))
	require.NoError(t, err)

	s.width, s.height = 400, 240
	require.NoError(t, w.Redraw())
	assert.False(t, w.Animating())

	st, _ := w.State()
	assert.Equal(t, 70.0, st.DisplayValue)
	assert.Equal(t, "collapsed", st.LowBand)

	l, _ := w.Layout()
	assert.Equal(t, 200.0, l.CenterX)
	assert.Greater(t, l.OuterRadius, 91.0)
	assert.Equal(t, l.BandCollapsed, st.LowBandOuter)
	assert.Equal(t, 400.0, s.last().Width)

	s.width, s.height = 4, 4
	require.ErrorIs(t, w.Redraw(), model.ErrInvalidRadii)
	kept, _ := w.Layout()
	assert.Equal(t, l, kept)
}

func TestTextFormatting(t *testing.T) {
	cfg := model.DefaultGaugeConfig()
	cfg.Decimal = 2
	cfg.Unit = "%"
	cfg.Value = 3.14159
	w, s, _ := newWidget(t, cfg)

	assert.Equal(t, "3.14 %", w.FormatValue(3.14159))
	assert.Equal(t, "3.14 %", s.last().ValueLabel.Text)

	require.NoError(t, w.SetDecimal(0))
	assert.Equal(t, "3 %", s.last().ValueLabel.Text)
	assert.False(t, w.Animating())
	cfgAfter, _ := w.Config()
	assert.Equal(t, 0, cfgAfter.Decimal)

	assert.ErrorIs(t, w.SetDecimal(-1), model.ErrInvalidOption)
}

func TestFormatFixed(t *testing.T) {
	cases := []struct {
		v       float64
		decimal int
		want    string
	}{
		{3.14159, 2, "3.14"},
		{2.5, 0, "3"},
		{-2.5, 0, "-3"},
		{0.125, 2, "0.13"},
		{1.005, 2, "1.00"},
		{math.Copysign(0, -1), 1, "0.0"},
		{0.5, 3, "0.500"},
		{0.0005, 3, "0.001"},
		{99.95, 1, "100.0"},
		{1e21, 0, "1000000000000000000000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatFixed(tc.v, tc.decimal), "%v/%d", tc.v, tc.decimal)
	}
	assert.Equal(t, "12.0", Formatter{Decimal: 1}.Format(12))
	assert.Equal(t, "12 kPa", Formatter{Unit: "kPa"}.Format(12))
}

func TestInteraction(t *testing.T) {
	w, _, _ := newWidget(t, model.DefaultGaugeConfig())
	require.ErrorIs(t, w.OnInteraction(nil), model.ErrNotCallable)
	assert.ErrorIs(t, w.OnInteraction(nil), model.ErrInteraction)

	var got [][2]float64
	require.NoError(t, w.OnInteraction(func(x, y float64) { got = append(got, [2]float64{x, y}) }))
	require.NoError(t, w.Click(12, 34))
	assert.Equal(t, [][2]float64{{12, 34}}, got)
}

func TestDestroyDisposesEverything(t *testing.T) {
	w, s, c := newWidget(t, bandConfig())
	require.NoError(t, w.Update(model.UpdateOptions{Value: ptr(10.0)}))
	require.NoError(t, w.Destroy())
	assert.Equal(t, 1, s.detached)
	assert.False(t, w.Animating())
	frames := len(s.frames)

	_, tickErr := w.Tick(c.advance(time.Second))
	_, frameErr := w.Frame()
	_, stateErr := w.State()
	_, cfgErr := w.Config()
	_, layoutErr := w.Layout()
	for _, err := range []error{
		w.Update(model.UpdateOptions{Value: ptr(1.0)}),
		w.UpdateColor(model.ColorOptions{ValueFontColor: ptr("#000000")}),
		w.SetDecimal(2),
		w.Redraw(),
		w.Destroy(),
		w.OnInteraction(func(float64, float64) {}),
		w.PointerMove(1, 1),
		w.PointerLeave(),
		w.Click(1, 1),
		tickErr, frameErr, stateErr, cfgErr, layoutErr,
	} {
		assert.ErrorIs(t, err, model.ErrDisposed)
		assert.ErrorIs(t, err, model.ErrLifecycle)
	}
	assert.Equal(t, 1, s.detached)
	assert.Len(t, s.frames, frames)
}

func TestRenderErrorsPropagate(t *testing.T) {
	w, s, _ := newWidget(t, model.DefaultGaugeConfig())
	boom := errors.New("boom")
	s.err = boom
	assert.ErrorIs(t, w.Update(model.UpdateOptions{Value: ptr(5.0)}), boom)
}

func TestFramePathsAreDeterministic(t *testing.T) {
	w, _, _ := newWidget(t, bandConfig())
	a, err := w.Frame()
	require.NoError(t, err)
	b, err := w.Frame()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a.Background.Path)
	assert.Equal(t, geom.BaseAngle, a.Foreground.Arc.EndAngle)
	assert.InDelta(t, 84.7, a.Foreground.Arc.InnerRadius, 1e-12)
	assert.InDelta(t, 91.3, a.Foreground.Arc.OuterRadius, 1e-12)
	assert.Equal(t, 91.0, a.Bands[0].Arc.InnerRadius)
}
