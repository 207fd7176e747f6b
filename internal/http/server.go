// Package http serves the dashboard UI and the JSON API. Derived summaries
// are cached per period and invalidated wholesale on any mutation, since a
// price change or a backdated payment can move any month's totals.
package http

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"

	"rentalflow/internal/cache"
	"rentalflow/internal/core"
	applog "rentalflow/internal/log"
	"rentalflow/internal/middleware/ratelimit"
	"rentalflow/internal/middleware/security"
	"rentalflow/internal/middleware/trace"
	"rentalflow/internal/services"
	"rentalflow/web"
)

const (
	summaryCacheSize = 64
	summaryCacheTTL  = 5 * time.Minute
	handlerTimeout   = 7 * time.Second
)

// Config carries the server's listen address and display defaults.
type Config struct {
	Port            string
	DefaultCurrency core.Currency
	DefaultLocale   language.Tag
}

type Server struct {
	srv     *http.Server
	service *services.RentalService
	cfg     Config

	templates *template.Template

	dashCache  *cache.Cache[core.DashboardSummary]
	rangeCache *cache.Cache[core.RangeSummary]
	cacheMgr   *cache.Janitor

	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	structLog *applog.StructuredLogger

	shutdownOnce sync.Once
}

func NewServer(cfg Config, service *services.RentalService, logger *applog.Logger) (*Server, error) {
	templates, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = core.CurrencyAriary
	}
	if cfg.DefaultLocale == (language.Tag{}) {
		cfg.DefaultLocale = language.English
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	detector := security.NewDetector()
	s := &Server{
		service:    service,
		cfg:        cfg,
		templates:  templates,
		dashCache:  cache.New[core.DashboardSummary](summaryCacheSize, summaryCacheTTL),
		rangeCache: cache.New[core.RangeSummary](summaryCacheSize, summaryCacheTTL),
		cacheMgr:   cache.NewJanitor(),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:   detector,
		tracer:     trace.NewMiddleware(detector.ExtractClientIP),
		structLog:  applog.NewStructuredLogger(logger),
	}
	s.cacheMgr.Register(s.dashCache)
	s.cacheMgr.Register(s.rangeCache)
	s.cacheMgr.Start(time.Minute)

	s.srv = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)

	mux.HandleFunc("/ui/dashboard", s.handleDashboardPartial)

	mux.HandleFunc("/api/dashboard", s.handleAPIDashboard)
	mux.HandleFunc("/api/dashboard/range", s.handleAPIDashboardRange)
	mux.HandleFunc("/api/apartments", s.handleApartments)
	mux.HandleFunc("/api/leases", s.handleLeases)
	mux.HandleFunc("/api/payments", s.handlePayments)

	// The embedded FS roots at web/, so /static/x resolves to static/x directly.
	static := http.FileServer(http.FS(web.StaticFS))
	mux.Handle("/static/", security.StaticAssets(86400)(static))

	headers := security.Headers(security.DefaultHeadersConfig())
	return headers(s.tracer.Middleware(s.withProbeLogging(s.withRateLimit(mux))))
}

// withProbeLogging flags requests matching known probe patterns. They are
// logged, not blocked; the dashboard also sits behind the rate limiter.
func (s *Server) withProbeLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.IsSuspicious(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"client_ip", s.detector.ExtractClientIP(r),
				"path", r.URL.Path,
				"user_agent", r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles mutating requests per client IP. Reads are
// unlimited; the summary caches already absorb read load.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			ip := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// invalidateSummaries drops every cached summary. Called after any mutation.
func (s *Server) invalidateSummaries() {
	s.dashCache.Clear()
	s.rangeCache.Clear()
}

func (s *Server) dashboardSummary(ctx context.Context, year, month int) (core.DashboardSummary, error) {
	key := fmt.Sprintf("%04d-%02d", year, month)
	if cached, ok := s.dashCache.Get(key); ok {
		return cached, nil
	}
	summary, err := s.service.Dashboard(ctx, year, month)
	if err != nil {
		return core.DashboardSummary{}, err
	}
	s.dashCache.Set(key, summary)
	return summary, nil
}

func (s *Server) rangeSummary(ctx context.Context, startYear, startMonth, endYear, endMonth int) (core.RangeSummary, error) {
	key := fmt.Sprintf("%04d-%02d:%04d-%02d", startYear, startMonth, endYear, endMonth)
	if cached, ok := s.rangeCache.Get(key); ok {
		return cached, nil
	}
	summary, err := s.service.RangeSummary(ctx, startYear, startMonth, endYear, endMonth)
	if err != nil {
		return core.RangeSummary{}, err
	}
	s.rangeCache.Set(key, summary)
	return summary, nil
}

func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.limiter.Stop()
		err = s.srv.Shutdown(ctx)
	})
	return err
}
