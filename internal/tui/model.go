// Package tui hosts a gauge in a Bubble Tea program.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/generator"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/render"
	"github.com/verte-zerg/arcgauge/internal/store"
)

const (
	// FrameInterval is the scheduler period while a transition is in flight.
	FrameInterval = time.Second / 30
	// AutoInterval is the period of automatic random-walk updates.
	AutoInterval = 1500 * time.Millisecond

	defaultCols = 80
	defaultRows = 24
	statusLines = 2
)

var (
	foregroundPalette = []string{"#3fabd4", "#43a047", "#fb8c00", "#8e24aa", "#e53935"}
	backgroundPalette = []string{"#fafafa", "#616161", "#263238"}

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Options configures a Model.
type Options struct {
	Config model.GaugeConfig
	// Step is the value change per up/down key press.
	Step float64
	// Auto starts with random-walk updates enabled.
	Auto bool
	// Store and Session enable recording of every update. Store may be nil.
	Store   *store.Store
	Session string
	// Replay plays recorded samples instead of accepting value keys.
	Replay []model.Sample
	Speed  float64
	Plain  bool

	Logger    *logrus.Logger
	Clock     func() time.Time
	Generator *generator.Generator
}

type (
	frameMsg  struct{}
	autoMsg   struct{}
	replayMsg struct{ index int }
)

// Model implements the Bubble Tea gauge host.
type Model struct {
	opts    Options
	log     *logrus.Logger
	now     func() time.Time
	gen     *generator.Generator
	surface *render.Terminal
	widget  *gauge.Widget

	keys keyMap
	help help.Model

	width  int
	height int

	ticking  bool
	auto     bool
	fgIndex  int
	bgIndex  int
	replayAt int
	status   string
	errMsg   string
}

// NewModel builds the widget on a terminal surface and returns its host.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	gen := opts.Generator
	if gen == nil {
		gen = generator.New()
	}
	if opts.Speed <= 0 {
		opts.Speed = 1
	}

	m := &Model{
		opts:    opts,
		log:     logger,
		now:     now,
		gen:     gen,
		surface: render.NewTerminal(defaultCols, defaultRows-statusLines-1),
		keys:    newKeyMap(),
		help:    help.New(),
		width:   defaultCols,
		height:  defaultRows,
		auto:    opts.Auto && opts.Replay == nil,
	}
	m.surface.SetPlain(opts.Plain)
	m.keys.setInput(opts.Replay == nil)

	w, err := gauge.New(opts.Config, m.surface, gauge.WithClock(now), gauge.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := w.OnInteraction(func(x, y float64) {
		m.status = fmt.Sprintf("Clicked at (%.0f, %.0f)", x, y)
	}); err != nil {
		return nil, err
	}
	m.widget = w
	return m, nil
}

// Widget returns the hosted widget.
func (m *Model) Widget() *gauge.Widget {
	return m.widget
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.opts.Replay != nil {
		cmds = append(cmds, m.scheduleReplay(0))
	}
	if m.auto {
		cmds = append(cmds, autoTick())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case frameMsg:
		m.ticking = false
		if _, err := m.widget.Tick(m.now()); err != nil {
			m.fail(err)
			return m, nil
		}
		return m, m.scheduleFrame()
	case autoMsg:
		if !m.auto {
			return m, nil
		}
		cfg, err := m.widget.Config()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		step := (cfg.Max - cfg.Min) / 5
		value := m.gen.Walk(cfg.Value, cfg.Min, cfg.Max, step)
		return m, tea.Batch(m.apply(model.UpdateOptions{Value: &value}), autoTick())
	case replayMsg:
		return m, m.playSample(msg.index)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if err := m.widget.Destroy(); err != nil {
			m.log.WithError(err).Warn("Failed to destroy gauge")
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil
	case key.Matches(msg, m.keys.Redraw):
		m.resize(m.width, m.height)
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		cfg, err := m.widget.Config()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		value := cfg.Value + m.opts.Step
		if key.Matches(msg, m.keys.Down) {
			value = cfg.Value - m.opts.Step
		}
		value = math.Min(cfg.Max, math.Max(cfg.Min, value))
		return m, m.apply(model.UpdateOptions{Value: &value})
	case key.Matches(msg, m.keys.Random):
		cfg, err := m.widget.Config()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		value := m.gen.Value(cfg.Min, cfg.Max)
		return m, m.apply(model.UpdateOptions{Value: &value})
	case key.Matches(msg, m.keys.Auto):
		m.auto = !m.auto
		if m.auto {
			m.status = "Auto updates on"
			return m, autoTick()
		}
		m.status = "Auto updates off"
		return m, nil
	case key.Matches(msg, m.keys.Color):
		m.fgIndex = (m.fgIndex + 1) % len(foregroundPalette)
		color := foregroundPalette[m.fgIndex]
		return m, m.apply(model.UpdateOptions{Color: &color})
	case key.Matches(msg, m.keys.Back):
		m.bgIndex = (m.bgIndex + 1) % len(backgroundPalette)
		color := backgroundPalette[m.bgIndex]
		if err := m.widget.UpdateColor(model.ColorOptions{ArcBackFillColor: &color}); err != nil {
			m.fail(err)
			return m, nil
		}
		return m, m.scheduleFrame()
	case key.Matches(msg, m.keys.More), key.Matches(msg, m.keys.Less):
		cfg, err := m.widget.Config()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		decimal := cfg.Decimal + 1
		if key.Matches(msg, m.keys.Less) {
			decimal = cfg.Decimal - 1
		}
		if decimal < 0 || decimal > gauge.MaxDecimal {
			return m, nil
		}
		if err := m.widget.SetDecimal(decimal); err != nil {
			m.fail(err)
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	var err error
	inside := msg.Y >= 0 && msg.Y < m.surface.Rows() && msg.X >= 0 && msg.X < m.surface.Cols()
	x, y := m.surface.CellCenter(msg.X, msg.Y)
	switch {
	case !inside:
		err = m.widget.PointerLeave()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		err = m.widget.Click(x, y)
	case msg.Action == tea.MouseActionMotion:
		err = m.widget.PointerMove(x, y)
	}
	if err != nil {
		m.fail(err)
		return nil
	}
	return m.scheduleFrame()
}

// apply forwards an update to the widget, records it and starts the frame
// scheduler.
func (m *Model) apply(opts model.UpdateOptions) tea.Cmd {
	if err := m.widget.Update(opts); err != nil {
		m.fail(err)
		return nil
	}
	m.errMsg = ""
	m.record(opts)
	return m.scheduleFrame()
}

func (m *Model) record(opts model.UpdateOptions) {
	if m.opts.Store == nil || m.opts.Session == "" {
		return
	}
	sample := model.Sample{Session: m.opts.Session, At: m.now(), Value: opts.Value, Color: opts.Color}
	if _, err := m.opts.Store.InsertSample(context.Background(), sample); err != nil {
		m.log.WithError(err).WithField("session", m.opts.Session).Warn("Failed to record sample")
	}
}

// scheduleFrame starts the frame ticker unless it is already running or
// nothing is animating.
func (m *Model) scheduleFrame() tea.Cmd {
	if m.ticking || !m.widget.Animating() {
		return nil
	}
	m.ticking = true
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func autoTick() tea.Cmd {
	return tea.Tick(AutoInterval, func(time.Time) tea.Msg { return autoMsg{} })
}

func (m *Model) scheduleReplay(index int) tea.Cmd {
	samples := m.opts.Replay
	if index >= len(samples) {
		return nil
	}
	delay := time.Duration(0)
	if index > 0 {
		delay = time.Duration(float64(samples[index].At.Sub(samples[index-1].At)) / m.opts.Speed)
	}
	if delay <= 0 {
		return func() tea.Msg { return replayMsg{index: index} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return replayMsg{index: index} })
}

func (m *Model) playSample(index int) tea.Cmd {
	samples := m.opts.Replay
	if index < 0 || index >= len(samples) {
		return nil
	}
	m.replayAt = index + 1
	m.status = fmt.Sprintf("Replay %d/%d", m.replayAt, len(samples))
	if m.replayAt == len(samples) {
		m.status += " done"
	}
	sample := samples[index]
	return tea.Batch(m.apply(model.UpdateOptions{Value: sample.Value, Color: sample.Color}), m.scheduleReplay(index+1))
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	rows := height - statusLines - lipgloss.Height(m.help.View(m.keys))
	m.surface.Resize(width, rows)
	if err := m.widget.Redraw(); err != nil {
		m.fail(err)
		return
	}
	m.errMsg = ""
}

func (m *Model) fail(err error) {
	m.errMsg = err.Error()
	m.log.WithError(err).Debug("Gauge operation failed")
}

// View implements tea.Model.
func (m *Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.surface.View(), m.renderFooter(), m.help.View(m.keys))
}

// renderFooter returns exactly statusLines lines so the gauge keeps its
// place while the status changes.
func (m *Model) renderFooter() string {
	segments := []segment{}
	if state, err := m.widget.State(); err == nil {
		segments = append(segments, segment{"Target " + m.widget.FormatValue(state.Value), footerStyle})
	}
	if m.opts.Store != nil && m.opts.Session != "" {
		segments = append(segments, segment{"Recording " + shortSession(m.opts.Session), footerStyle})
	}
	if m.auto {
		segments = append(segments, segment{"Auto", footerStyle})
	}
	segments = append(segments, segment{m.status, statusStyle}, segment{m.errMsg, errorStyle})

	lines := wrapSegments(segments, m.width)
	if len(lines) > statusLines {
		lines = lines[:statusLines]
	}
	for len(lines) < statusLines {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
