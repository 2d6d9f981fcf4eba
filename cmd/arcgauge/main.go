// Package main provides the CLI entrypoint for arcgauge.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/arcgauge/internal/config"
	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/render"
	"github.com/verte-zerg/arcgauge/internal/server"
	"github.com/verte-zerg/arcgauge/internal/stats"
	"github.com/verte-zerg/arcgauge/internal/store"
	"github.com/verte-zerg/arcgauge/internal/tui"
)

const (
	defaultStep         = 5.0
	defaultListen       = ":8080"
	defaultSVGWidth     = 300
	defaultSVGHeight    = 180
	defaultTermRows     = 20
	terminalWidthBackup = 80
)

var (
	configPath string
	logLevel   string
	logFile    string

	gaugeMin        float64
	gaugeMax        float64
	gaugeValue      float64
	gaugeUnit       string
	gaugeDecimal    int
	gaugeDurationMS int
	gaugeEasing     string
	gaugeColor      string
	gaugeThresholds []string

	demoStep   float64
	demoAuto   bool
	demoRecord bool
	demoPlain  bool

	renderTo     float64
	renderAt     time.Duration
	renderFormat string
	renderOut    string
	renderWidth  int
	renderHeight int

	serveListen string
	serveWidth  int
	serveHeight int
	serveDemo   time.Duration
	serveRecord bool

	replaySession string
	replaySpeed   float64
	replayPlain   bool

	historySession string
	historyLast    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "arcgauge",
		Short:         "Animated arc gauge for terminals and browsers",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDemoCmd,
	}

	defaults := model.DefaultGaugeConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file (.toml, .yaml or .yml)")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file")
	flags.Float64Var(&gaugeMin, "min", defaults.Min, "lower bound of the value range")
	flags.Float64Var(&gaugeMax, "max", defaults.Max, "upper bound of the value range")
	flags.Float64Var(&gaugeValue, "value", defaults.Value, "initial value")
	flags.StringVar(&gaugeUnit, "unit", defaults.Unit, "unit appended to the value label")
	flags.IntVar(&gaugeDecimal, "decimal", defaults.Decimal, "digits after the decimal point")
	flags.IntVar(&gaugeDurationMS, "duration", int(defaults.Duration/time.Millisecond), "value transition duration in milliseconds")
	flags.StringVar(&gaugeEasing, "easing", defaults.Easing, "value transition easing (cubic-in-out, linear)")
	flags.StringVar(&gaugeColor, "color", defaults.ArcDefaultColor, "value arc colour")
	flags.StringArrayVar(&gaugeThresholds, "threshold", nil, "alarm threshold as type:value[:name], repeatable")

	addDemoFlags(rootCmd)

	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addDemoFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&demoStep, "step", defaultStep, "value change per arrow key")
	cmd.Flags().BoolVar(&demoAuto, "auto", false, "start with random-walk updates")
	cmd.Flags().BoolVar(&demoRecord, "record", false, "record updates to the sample log")
	cmd.Flags().BoolVar(&demoPlain, "plain", false, "disable colours")
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal gauge (default)",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	addDemoFlags(cmd)
	return cmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setupLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, _, err := loadGaugeConfig(cmd)
	if err != nil {
		return err
	}
	opts := tui.Options{
		Config: cfg,
		Step:   demoStep,
		Auto:   demoAuto,
		Plain:  demoPlain,
		Logger: logger,
	}
	if demoRecord {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer closeStore(st, logger)
		opts.Store = st
		opts.Session = uuid.NewString()
		logger.WithField("session", opts.Session).Info("Recording session")
	}
	return runTUI(opts)
}

func runTUI(opts tui.Options) error {
	m, err := tui.NewModel(opts)
	if err != nil {
		return fmt.Errorf("failed to build gauge: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame as SVG or terminal text",
		Args:  cobra.NoArgs,
		RunE:  runRenderCmd,
	}
	cmd.Flags().Float64Var(&renderTo, "to", 0, "update the value to this before rendering")
	cmd.Flags().DurationVar(&renderAt, "at", -1, "time after the update to render (default: when settled)")
	cmd.Flags().StringVar(&renderFormat, "format", "svg", "output format (svg, term)")
	cmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&renderWidth, "width", 0, "surface width (pixels for svg, cells for term)")
	cmd.Flags().IntVar(&renderHeight, "height", 0, "surface height (pixels for svg, cells for term)")
	return cmd
}

type frameSurface interface {
	gauge.Surface
	output() []byte
}

type svgOutput struct{ *render.SVG }

func (s svgOutput) output() []byte { return s.Bytes() }

type termOutput struct{ *render.Terminal }

func (t termOutput) output() []byte { return []byte(t.View() + "\n") }

func runRenderCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setupLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, _, err := loadGaugeConfig(cmd)
	if err != nil {
		return err
	}

	var surface frameSurface
	switch renderFormat {
	case "svg":
		surface = svgOutput{render.NewSVG(float64(orDefault(renderWidth, defaultSVGWidth)), float64(orDefault(renderHeight, defaultSVGHeight)))}
	case "term":
		t := render.NewTerminal(orDefault(renderWidth, terminalWidth()), orDefault(renderHeight, defaultTermRows))
		t.SetPlain(renderOut != "" || !term.IsTerminal(int(os.Stdout.Fd())))
		surface = termOutput{t}
	default:
		return fmt.Errorf("unknown --format %q (want svg or term)", renderFormat)
	}

	now := time.Unix(0, 0)
	w, err := gauge.New(cfg, surface, gauge.WithClock(func() time.Time { return now }), gauge.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build gauge: %w", err)
	}
	if cmd.Flags().Changed("to") {
		if err := w.Update(model.UpdateOptions{Value: &renderTo}); err != nil {
			return fmt.Errorf("failed to update gauge: %w", err)
		}
	}
	if renderAt >= 0 {
		now = now.Add(renderAt)
	} else {
		now = now.Add(cfg.Duration)
	}
	if _, err := w.Tick(now); err != nil {
		return fmt.Errorf("failed to advance gauge: %w", err)
	}

	out := cmd.OutOrStdout()
	if renderOut != "" {
		if err := os.WriteFile(renderOut, surface.output(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOut, err)
		}
		return nil
	}
	if _, err := out.Write(surface.output()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gauge over HTTP and websockets",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveListen, "listen", defaultListen, "listen address")
	cmd.Flags().IntVar(&serveWidth, "width", defaultSVGWidth, "surface width in pixels")
	cmd.Flags().IntVar(&serveHeight, "height", defaultSVGHeight, "surface height in pixels")
	cmd.Flags().DurationVar(&serveDemo, "demo", 0, "random-walk the value at this interval")
	cmd.Flags().BoolVar(&serveRecord, "record", false, "record API updates to the sample log")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setupLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, fileCfg, err := loadGaugeConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "listen", &serveListen, fileCfg.Server.Listen)
	applyIntConfig(cmd, "width", &serveWidth, fileCfg.Server.Width)
	applyIntConfig(cmd, "height", &serveHeight, fileCfg.Server.Height)

	opts := server.Options{
		Config:       cfg,
		Width:        float64(serveWidth),
		Height:       float64(serveHeight),
		DemoInterval: serveDemo,
		Logger:       logger,
	}
	if serveRecord {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer closeStore(st, logger)
		opts.Store = st
		opts.Session = uuid.NewString()
		logger.WithField("session", opts.Session).Info("Recording session")
	}
	srv, err := server.New(opts)
	if err != nil {
		return fmt.Errorf("failed to build gauge: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, serveListen); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded session in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runReplayCmd,
	}
	cmd.Flags().StringVar(&replaySession, "session", "", "session id (default: latest)")
	cmd.Flags().Float64Var(&replaySpeed, "speed", 1, "playback speed multiplier")
	cmd.Flags().BoolVar(&replayPlain, "plain", false, "disable colours")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setupLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()
	if replaySpeed <= 0 {
		return fmt.Errorf("--speed must be greater than 0")
	}

	cfg, _, err := loadGaugeConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	ctx := context.Background()
	session, err := resolveSession(ctx, st, replaySession)
	if err != nil {
		return err
	}
	samples, err := st.ListSamples(ctx, model.HistoryConfig{Session: session})
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("session %s has no samples", session)
	}
	return runTUI(tui.Options{
		Config: cfg,
		Replay: samples,
		Speed:  replaySpeed,
		Plain:  replayPlain,
		Logger: logger,
	})
}

func resolveSession(ctx context.Context, st *store.Store, session string) (string, error) {
	if session != "" {
		return session, nil
	}
	latest, err := st.LatestSession(ctx)
	if errors.Is(err, store.ErrNoSessions) {
		return "", fmt.Errorf("no recorded sessions; record one with: arcgauge demo --record")
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest session: %w", err)
	}
	return latest, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions and samples",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySession, "session", "", "session to list samples for (default: latest)")
	cmd.Flags().IntVar(&historyLast, "last", 20, "limit to the last N samples")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setupLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, _, err := loadGaugeConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	report, err := stats.BuildReport(context.Background(), st, model.HistoryConfig{Session: historySession, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to build history: %w", err)
	}
	useColor := os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))
	format := gauge.Formatter{Decimal: cfg.Decimal, Unit: cfg.Unit}
	return stats.RenderHistory(cmd.OutOrStdout(), report, format, terminalWidth(), useColor)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadGaugeConfig layers defaults, the config file and changed flags.
func loadGaugeConfig(cmd *cobra.Command) (model.GaugeConfig, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.GaugeConfig{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := model.DefaultGaugeConfig()
	if err := fileCfg.Gauge.Apply(&cfg); err != nil {
		return model.GaugeConfig{}, config.FileConfig{}, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	overrideFloat(cmd, "min", &cfg.Min, gaugeMin)
	overrideFloat(cmd, "max", &cfg.Max, gaugeMax)
	overrideFloat(cmd, "value", &cfg.Value, gaugeValue)
	overrideString(cmd, "unit", &cfg.Unit, gaugeUnit)
	overrideString(cmd, "easing", &cfg.Easing, gaugeEasing)
	overrideString(cmd, "color", &cfg.ArcDefaultColor, gaugeColor)
	if cmd.Flags().Changed("decimal") {
		cfg.Decimal = gaugeDecimal
	}
	if cmd.Flags().Changed("duration") {
		cfg.Duration = time.Duration(gaugeDurationMS) * time.Millisecond
	}
	if cmd.Flags().Changed("threshold") {
		thresholds, err := parseThresholds(gaugeThresholds)
		if err != nil {
			return model.GaugeConfig{}, config.FileConfig{}, err
		}
		cfg.Thresholds = thresholds
	}
	return cfg, fileCfg, nil
}

// parseThresholds reads type:value[:name] flags into alarm thresholds.
func parseThresholds(values []string) ([]model.ThresholdSpec, error) {
	out := make([]model.ThresholdSpec, 0, len(values))
	for _, raw := range values {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: --threshold %q must be type:value[:name]", model.ErrInvalidThreshold, raw)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: --threshold %q: %v", model.ErrInvalidThreshold, raw, err)
		}
		spec := model.ThresholdSpec{Type: strings.TrimSpace(parts[0]), Value: value, Alarm: true}
		if len(parts) == 3 {
			spec.Name = strings.TrimSpace(parts[2])
		}
		out = append(out, spec)
	}
	return out, nil
}

// setupLogger builds the process logger. Terminal UIs discard logs unless
// --log-file is set, since stderr shares the alternate screen.
func setupLogger(tuiMode bool) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)
	if logFile == "" {
		if tuiMode {
			logger.SetOutput(io.Discard)
		}
		return logger, func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, func() { _ = f.Close() }, nil
}

func closeStore(st *store.Store, logger *logrus.Logger) {
	if err := st.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close db")
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func overrideFloat(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func overrideString(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
