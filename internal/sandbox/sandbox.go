// Package sandbox serves a fake Trendyol seller API backed by fixtures. It
// checks Basic auth and the supplier ID like the real gateway, records
// every request, and can inject failure statuses or dropped connections to
// exercise client retries.
package sandbox

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/donaldgifford/trendyol-sp/internal/metrics"
	"github.com/donaldgifford/trendyol-sp/internal/sandbox/middleware"
)

// FaultDropConnection closes the connection without writing a response.
const FaultDropConnection = -1

// Config holds the credentials the sandbox accepts.
type Config struct {
	SupplierID string
	APIKey     string
	APISecret  string
}

// Request is one recorded inbound request.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      []byte
	RequestID string
}

// Server is the sandbox API. It is safe for concurrent use.
type Server struct {
	cfg     Config
	log     *slog.Logger
	echo    *echo.Echo
	catalog *catalog
	newID   func() string

	mu       sync.Mutex
	faults   []int
	latency  time.Duration
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithFixture replaces the built-in seller account.
func WithFixture(f *Fixture) Option {
	return func(s *Server) {
		s.catalog = &catalog{f: f}
	}
}

// WithIDFunc overrides how batch request IDs are generated.
func WithIDFunc(f func() string) Option {
	return func(s *Server) {
		s.newID = f
	}
}

// New builds a Server for cfg.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID: newBatchID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = &catalog{f: DefaultFixture()}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recovery(s.log))
	e.Use(middleware.RequestLog(s.log))
	e.Use(middleware.Metrics())
	e.Use(s.record)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("", s.injectFaults, echomw.BasicAuth(s.validateCredentials))
	s.routes(api)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving the sandbox API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Fail queues statuses to answer the next requests with, one per request,
// before any other handling. FaultDropConnection drops the connection.
func (s *Server) Fail(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, statuses...)
}

// SetLatency delays every API response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset clears recorded requests, queued faults and latency.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.faults = nil
	s.latency = 0
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		var body []byte
		if req.Body != nil {
			var err error
			body, err = io.ReadAll(req.Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "reading request body")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    req.Method,
			Path:      req.URL.Path,
			Query:     req.URL.Query(),
			Header:    req.Header.Clone(),
			Body:      body,
			RequestID: middleware.RequestID(c),
		})
		s.mu.Unlock()

		return next(c)
	}
}

func (s *Server) injectFaults(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		latency := s.latency
		status := 0
		if len(s.faults) > 0 {
			status = s.faults[0]
			s.faults = s.faults[1:]
		}
		s.mu.Unlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}

		switch {
		case status == FaultDropConnection:
			metrics.SandboxFaultsTotal.WithLabelValues("drop").Inc()
			return dropConnection(c)
		case status != 0:
			metrics.SandboxFaultsTotal.WithLabelValues(http.StatusText(status)).Inc()
			return c.JSON(status, middleware.ErrorBody("sandbox.fault", http.StatusText(status)))
		}

		return next(c)
	}
}

func dropConnection(c echo.Context) error {
	conn, _, err := c.Response().Hijack()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "connection cannot be dropped")
	}
	return conn.Close()
}

func (s *Server) validateCredentials(user, pass string, _ echo.Context) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.cfg.APIKey)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.APISecret)) == 1
	return userOK && passOK, nil
}

// handleError renders every error in the seller API error envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="Restricted"`)
	}

	if err := c.JSON(status, middleware.ErrorBody("sandbox."+http.StatusText(status), message)); err != nil {
		s.log.Error("writing sandbox error response", "error", err)
	}
}
