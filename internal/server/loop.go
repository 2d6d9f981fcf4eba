package server

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/generator"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/render"
	"github.com/verte-zerg/arcgauge/internal/store"
)

// ErrStopped is returned for jobs submitted after the loop exited.
var ErrStopped = errors.New("gauge loop stopped")

// Job runs on the loop goroutine with exclusive access to the gauge.
type Job func(w *gauge.Widget, s *render.SVG) error

// Loop owns one widget and its SVG surface. Every access goes through Do,
// so the widget is only ever touched by the goroutine running Run.
type Loop struct {
	widget  *gauge.Widget
	surface *render.SVG
	jobs    chan func()
	done    chan struct{}
	now     func() time.Time
	log     *logrus.Logger

	frameInterval time.Duration
	demoInterval  time.Duration
	gen           *generator.Generator

	store   *store.Store
	session string
}

// newLoop builds the widget. onFrame receives the SVG document after every
// render.
func newLoop(opts Options, onUpdate func(value float64, superseded bool), onFrame func(svg string)) (*Loop, error) {
	l := &Loop{
		surface:       render.NewSVG(opts.Width, opts.Height),
		jobs:          make(chan func()),
		done:          make(chan struct{}),
		now:           opts.Clock,
		log:           opts.Logger,
		frameInterval: opts.FrameInterval,
		demoInterval:  opts.DemoInterval,
		gen:           opts.Generator,
		store:         opts.Store,
		session:       opts.Session,
	}
	hooks := gauge.Hooks{
		OnUpdate: onUpdate,
		OnFrame:  func(gauge.Frame) { onFrame(l.surface.String()) },
	}
	w, err := gauge.New(opts.Config, l.surface,
		gauge.WithClock(opts.Clock), gauge.WithLogger(opts.Logger), gauge.WithHooks(hooks))
	if err != nil {
		return nil, err
	}
	l.widget = w
	return l, nil
}

// Run serves jobs and drives transitions until ctx is cancelled, then
// destroys the widget.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	frames := time.NewTicker(l.frameInterval)
	defer frames.Stop()
	var demo <-chan time.Time
	if l.demoInterval > 0 {
		t := time.NewTicker(l.demoInterval)
		defer t.Stop()
		demo = t.C
	}

	for {
		select {
		case <-ctx.Done():
			if err := l.widget.Destroy(); err != nil && !errors.Is(err, model.ErrDisposed) {
				return err
			}
			return nil
		case job := <-l.jobs:
			job()
		case <-frames.C:
			if !l.widget.Animating() {
				continue
			}
			if _, err := l.widget.Tick(l.now()); err != nil {
				l.log.WithError(err).Warn("Frame tick failed")
			}
		case <-demo:
			l.demoStep()
		}
	}
}

func (l *Loop) demoStep() {
	cfg, err := l.widget.Config()
	if err != nil {
		return
	}
	value := l.gen.Walk(cfg.Value, cfg.Min, cfg.Max, (cfg.Max-cfg.Min)/5)
	if err := l.update(model.UpdateOptions{Value: &value}); err != nil {
		l.log.WithError(err).Warn("Demo update failed")
	}
}

// Do runs job on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, job Job) error {
	errc := make(chan error, 1)
	run := func() { errc <- job(l.widget, l.surface) }
	select {
	case l.jobs <- run:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update applies opts and records it when a sample log is attached. It
// must run on the loop goroutine.
func (l *Loop) update(opts model.UpdateOptions) error {
	if err := l.widget.Update(opts); err != nil {
		return err
	}
	if l.store == nil || l.session == "" {
		return nil
	}
	sample := model.Sample{Session: l.session, At: l.now(), Value: opts.Value, Color: opts.Color}
	if _, err := l.store.InsertSample(context.Background(), sample); err != nil {
		l.log.WithError(err).WithField("session", l.session).Warn("Failed to record sample")
	}
	return nil
}
