// Package server exposes a gauge over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/generator"
	"github.com/verte-zerg/arcgauge/internal/model"
	"github.com/verte-zerg/arcgauge/internal/render"
	"github.com/verte-zerg/arcgauge/internal/store"
)

const (
	defaultWidth         = 300
	defaultHeight        = 180
	defaultFrameInterval = time.Second / 30
	defaultPointerRate   = 30
	defaultPointerBurst  = 10
	sendBuffer           = 16
	shutdownTimeout      = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Config model.GaugeConfig
	Width  float64
	Height float64

	FrameInterval time.Duration
	// DemoInterval, when positive, random-walks the value at that period.
	DemoInterval time.Duration
	Generator    *generator.Generator

	// Store and Session enable recording of API updates.
	Store   *store.Store
	Session string

	PointerRate  float64
	PointerBurst int

	Logger   *logrus.Logger
	Registry *prometheus.Registry
	Clock    func() time.Time
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = defaultFrameInterval
	}
	if o.Generator == nil {
		o.Generator = generator.New()
	}
	if o.PointerRate <= 0 {
		o.PointerRate = defaultPointerRate
	}
	if o.PointerBurst <= 0 {
		o.PointerBurst = defaultPointerBurst
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
		o.Logger.SetLevel(logrus.WarnLevel)
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
}

// Server serves one gauge.
type Server struct {
	opts    Options
	loop    *Loop
	hub     *Hub
	metrics *Metrics
	echo    *echo.Echo
	log     *logrus.Logger
}

// New builds the gauge and registers every route.
func New(opts Options) (*Server, error) {
	opts.setDefaults()
	s := &Server{
		opts:    opts,
		metrics: NewMetrics(opts.Registry),
		log:     opts.Logger,
	}
	s.hub = NewHub(opts.Logger, func(n int) { s.metrics.Viewers.Set(float64(n)) })
	loop, err := newLoop(opts, s.observeUpdate, s.broadcastFrame)
	if err != nil {
		return nil, err
	}
	s.loop = loop
	s.metrics.Value.Set(opts.Config.Value)
	if err := loop.widget.OnInteraction(func(x, y float64) {
		s.hub.Broadcast(Message{Type: MessageClick, X: x, Y: y})
	}); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("Request served")
			return nil
		},
	}))
	s.echo = e
	s.registerRoutes()
	return s, nil
}

func (s *Server) observeUpdate(value float64, superseded bool) {
	s.metrics.Value.Set(value)
	s.metrics.Updates.Inc()
	if superseded {
		s.metrics.Supersessions.Inc()
	}
}

func (s *Server) broadcastFrame(svg string) {
	s.metrics.Frames.Inc()
	s.hub.Broadcast(Message{Type: MessageFrame, SVG: svg})
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/", s.handleViewer)
	s.echo.GET("/gauge.svg", s.handleSVG)
	s.echo.GET("/ws", s.handleWebsocket)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api")
	api.GET("/frame", s.handleFrame)
	api.GET("/state", s.handleState)
	api.GET("/config", s.handleConfig)
	api.POST("/update", s.handleUpdate)
	api.POST("/colors", s.handleColors)
	api.PUT("/decimal", s.handleDecimal)
	api.POST("/redraw", s.handleRedraw)
}

// Handler returns the HTTP handler with every route.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Loop returns the gauge loop. It must be running for requests that touch
// the gauge to complete.
func (s *Server) Loop() *Loop {
	return s.loop
}

// Run serves on addr and runs the gauge loop until ctx is cancelled or
// either of them fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.loop.Run(gctx)
	})
	g.Go(func() error {
		s.log.WithField("addr", addr).Info("Serving gauge")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"viewers": s.hub.ClientCount(),
	})
}

func (s *Server) handleViewer(c echo.Context) error {
	return c.HTML(http.StatusOK, viewerPage)
}

func (s *Server) handleSVG(c echo.Context) error {
	var doc []byte
	err := s.loop.Do(c.Request().Context(), func(w *gauge.Widget, surface *render.SVG) error {
		if _, err := w.State(); err != nil {
			return err
		}
		doc = append([]byte(nil), surface.Bytes()...)
		return nil
	})
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", doc)
}

func (s *Server) handleFrame(c echo.Context) error {
	var frame gauge.Frame
	err := s.loop.Do(c.Request().Context(), func(w *gauge.Widget, _ *render.SVG) error {
		var err error
		frame, err = w.Frame()
		return err
	})
	if err != nil {
		return err
	}
	if c.QueryParam("format") == "msgpack" {
		data, err := msgpack.Marshal(frame)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/msgpack", data)
	}
	return c.JSON(http.StatusOK, frame)
}

func (s *Server) handleState(c echo.Context) error {
	state, err := s.state(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) state(ctx context.Context) (gauge.State, error) {
	var state gauge.State
	err := s.loop.Do(ctx, func(w *gauge.Widget, _ *render.SVG) error {
		var err error
		state, err = w.State()
		return err
	})
	return state, err
}

func (s *Server) handleConfig(c echo.Context) error {
	var cfg model.GaugeConfig
	err := s.loop.Do(c.Request().Context(), func(w *gauge.Widget, _ *render.SVG) error {
		var err error
		cfg, err = w.Config()
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newConfigView(cfg))
}

func (s *Server) handleUpdate(c echo.Context) error {
	var opts model.UpdateOptions
	if err := c.Bind(&opts); err != nil {
		return NewBadRequestError("invalid update body", err)
	}
	return s.mutate(c, func(*gauge.Widget, *render.SVG) error {
		return s.loop.update(opts)
	})
}

func (s *Server) handleColors(c echo.Context) error {
	var opts model.ColorOptions
	if err := c.Bind(&opts); err != nil {
		return NewBadRequestError("invalid colors body", err)
	}
	return s.mutate(c, func(w *gauge.Widget, _ *render.SVG) error {
		return w.UpdateColor(opts)
	})
}

type decimalRequest struct {
	Decimal *int `json:"decimal"`
}

func (s *Server) handleDecimal(c echo.Context) error {
	var req decimalRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid decimal body", err)
	}
	if req.Decimal == nil {
		return NewBadRequestError("decimal is required", nil)
	}
	return s.mutate(c, func(w *gauge.Widget, _ *render.SVG) error {
		return w.SetDecimal(*req.Decimal)
	})
}

type redrawRequest struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

func (s *Server) handleRedraw(c echo.Context) error {
	var req redrawRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid redraw body", err)
	}
	return s.mutate(c, func(w *gauge.Widget, surface *render.SVG) error {
		width, height := surface.Size()
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		surface.Resize(width, height)
		if err := w.Redraw(); err != nil {
			surface.Resize(s.opts.Width, s.opts.Height)
			return err
		}
		s.opts.Width, s.opts.Height = width, height
		return nil
	})
}

// mutate runs job and responds with the resulting state.
func (s *Server) mutate(c echo.Context, job Job) error {
	var state gauge.State
	err := s.loop.Do(c.Request().Context(), func(w *gauge.Widget, surface *render.SVG) error {
		if err := job(w, surface); err != nil {
			return err
		}
		var err error
		state, err = w.State()
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) handleWebsocket(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.WithError(err).Warn("Websocket accept failed")
		return nil
	}
	client := &Client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan Message, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(s.opts.PointerRate), s.opts.PointerBurst),
		log:     s.log,
	}
	ctx := c.Request().Context()

	err = s.loop.Do(ctx, func(w *gauge.Widget, surface *render.SVG) error {
		if _, err := w.State(); err != nil {
			return err
		}
		// Registered on the loop goroutine so no frame falls between the
		// snapshot and the first broadcast.
		client.send <- Message{Type: MessageFrame, SVG: surface.String()}
		s.hub.Register(client)
		return nil
	})
	if err != nil {
		_ = conn.Close(websocket.StatusTryAgainLater, FromError(err).Message)
		return nil
	}

	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()
	client.readPump(ctx, func(msg ClientMessage) {
		if err := s.loop.Do(ctx, pointerJob(msg)); err != nil {
			s.log.WithError(err).WithField("viewer", client.id).Debug("Pointer event rejected")
		}
	})

	s.hub.Unregister(client)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	<-done
	return nil
}

func pointerJob(msg ClientMessage) Job {
	return func(w *gauge.Widget, _ *render.SVG) error {
		switch msg.Type {
		case PointerMove:
			return w.PointerMove(msg.X, msg.Y)
		case PointerLeave:
			return w.PointerLeave()
		case PointerClick:
			return w.Click(msg.X, msg.Y)
		default:
			return nil
		}
	}
}
