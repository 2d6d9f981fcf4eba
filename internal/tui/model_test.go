package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/arcgauge/internal/generator"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestModel(t *testing.T, mutate func(*Options)) (*Model, *clock) {
	t.Helper()
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	cfg := model.DefaultGaugeConfig()
	cfg.Thresholds = []model.ThresholdSpec{
		{Name: "Too cold", Value: 10, Type: model.ThresholdLow, Alarm: true},
		{Name: "Too hot", Value: 90, Type: model.ThresholdHigh, Alarm: true},
	}
	opts := Options{
		Config:    cfg,
		Step:      5,
		Plain:     true,
		Clock:     clk.now,
		Generator: generator.NewSeeded(1),
	}
	if mutate != nil {
		mutate(&opts)
	}
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.errMsg != "" {
		t.Fatalf("unexpected error after resize: %s", m.errMsg)
	}
	return m, clk
}

func press(m *Model, keys string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	switch keys {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestResizeFitsSurface(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.surface.Cols() != 60 || m.surface.Rows() != 17 {
		t.Fatalf("unexpected surface size %dx%d", m.surface.Cols(), m.surface.Rows())
	}
	if got := lipgloss.Height(m.View()); got != 20 {
		t.Fatalf("expected view height 20, got %d", got)
	}
}

func TestKeyUpSchedulesFramesUntilIdle(t *testing.T) {
	m, clk := newTestModel(t, nil)
	if cmd := press(m, "up"); cmd == nil {
		t.Fatalf("expected a frame tick after an update")
	}
	cfg, err := m.widget.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Value != 5 {
		t.Fatalf("expected target 5, got %v", cfg.Value)
	}
	if cmd := press(m, "up"); cmd != nil {
		t.Fatalf("expected no second ticker while one is running")
	}

	clk.t = clk.t.Add(250 * time.Millisecond)
	if _, cmd := m.Update(frameMsg{}); cmd == nil {
		t.Fatalf("expected another tick mid transition")
	}
	clk.t = clk.t.Add(time.Second)
	if _, cmd := m.Update(frameMsg{}); cmd != nil {
		t.Fatalf("expected the ticker to stop once idle")
	}
	state, err := m.widget.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.DisplayValue != 10 {
		t.Fatalf("expected display value 10, got %v", state.DisplayValue)
	}
	if !strings.Contains(m.View(), "10.0") {
		t.Fatalf("expected value label in view")
	}
}

func TestKeysClampAndDecimal(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(m, "down")
	cfg, _ := m.widget.Config()
	if cfg.Value != 0 {
		t.Fatalf("expected value clamped to min, got %v", cfg.Value)
	}
	press(m, "+")
	cfg, _ = m.widget.Config()
	if cfg.Decimal != 2 {
		t.Fatalf("expected decimal 2, got %d", cfg.Decimal)
	}
	press(m, "-")
	press(m, "-")
	press(m, "-")
	cfg, _ = m.widget.Config()
	if cfg.Decimal != 0 {
		t.Fatalf("expected decimal to stop at 0, got %d", cfg.Decimal)
	}
}

func TestColorKeysCycle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	press(m, "c")
	state, _ := m.widget.State()
	if state.TargetColor != foregroundPalette[1] {
		t.Fatalf("expected target colour %s, got %s", foregroundPalette[1], state.TargetColor)
	}
	press(m, "b")
	cfg, _ := m.widget.Config()
	if cfg.ArcBackFillColor != backgroundPalette[1] {
		t.Fatalf("expected background %s, got %s", backgroundPalette[1], cfg.ArcBackFillColor)
	}
}

func TestMouseHoverShowsTooltip(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.MouseMsg{X: 2, Y: 8, Action: tea.MouseActionMotion})
	if !strings.Contains(m.View(), "Name: Too cold") {
		t.Fatalf("expected low tooltip in view:\n%s", m.View())
	}
	m.Update(tea.MouseMsg{X: 2, Y: 19, Action: tea.MouseActionMotion})
	if strings.Contains(m.View(), "Name: Too cold") {
		t.Fatalf("expected tooltip hidden after leaving the gauge")
	}
}

func TestMouseClickSetsStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.status != "Clicked at (7, 10)" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestRecordingStoresUpdates(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "samples.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m, clk := newTestModel(t, func(o *Options) {
		o.Store = st
		o.Session = "session-1"
	})
	press(m, "up")
	clk.t = clk.t.Add(time.Second)
	press(m, "c")

	samples, err := st.ListSamples(context.Background(), model.HistoryConfig{Session: "session-1"})
	if err != nil {
		t.Fatalf("list samples: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Value == nil || *samples[0].Value != 5 {
		t.Fatalf("unexpected first sample: %+v", samples[0])
	}
	if samples[1].Color == nil || *samples[1].Color != foregroundPalette[1] {
		t.Fatalf("unexpected second sample: %+v", samples[1])
	}
	if !strings.Contains(m.View(), "Recording session-") {
		t.Fatalf("expected recording marker in footer")
	}
}

func TestReplayPlaysSamples(t *testing.T) {
	start := time.Unix(100, 0)
	v1, v2 := 40.0, 70.0
	m, _ := newTestModel(t, func(o *Options) {
		o.Replay = []model.Sample{
			{Session: "s", At: start, Value: &v1},
			{Session: "s", At: start.Add(2 * time.Second), Value: &v2},
		}
		o.Speed = 2
	})
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected replay to be scheduled")
	}
	press(m, "up")
	cfg, _ := m.widget.Config()
	if cfg.Value != 0 {
		t.Fatalf("expected value keys to be disabled during replay")
	}

	m.Update(replayMsg{index: 0})
	cfg, _ = m.widget.Config()
	if cfg.Value != 40 || m.status != "Replay 1/2" {
		t.Fatalf("unexpected replay state: value %v status %q", cfg.Value, m.status)
	}
	m.Update(replayMsg{index: 1})
	cfg, _ = m.widget.Config()
	if cfg.Value != 70 || m.status != "Replay 2/2 done" {
		t.Fatalf("unexpected replay state: value %v status %q", cfg.Value, m.status)
	}
	if cmd := m.scheduleReplay(2); cmd != nil {
		t.Fatalf("expected no sample after the last one")
	}
}

func TestQuitDestroysWidget(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if cmd := press(m, "q"); cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.widget.Animating() {
		t.Fatalf("expected no animation after destroy")
	}
	if _, err := m.widget.State(); err == nil {
		t.Fatalf("expected disposed widget")
	}
}

func TestWrapSegments(t *testing.T) {
	plain := lipgloss.NewStyle()
	lines := wrapSegments([]segment{{"aaaa", plain}, {"", plain}, {"bbbb", plain}, {"cc", plain}}, 10)
	if len(lines) != 2 || lines[0] != "aaaa  bbbb" || lines[1] != "cc" {
		t.Fatalf("unexpected lines: %q", lines)
	}
	lines = wrapSegments([]segment{{"a long segment", plain}, {"b", plain}}, 5)
	if len(lines) != 2 || lines[0] != "a long segment" {
		t.Fatalf("expected an oversized segment on its own line: %q", lines)
	}
}
