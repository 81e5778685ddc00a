// Package server exposes the dashboard views over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/fetcher"
	"helios-dashboard/internal/observability"
	"helios-dashboard/internal/view"
)

// SessionCookie carries the caller's cache session id.
const SessionCookie = "helios_session"

// Options configure a Server.
type Options struct {
	QueryTimeout  time.Duration // per-request deadline on data queries; 0 disables it
	DefaultWindow int           // window used when a request omits ?window
	SecureCookie  bool
	Logger        *slog.Logger
}

// Server routes dashboard requests to the view service.
type Server struct {
	views    *view.Service
	sessions *cache.Sessions
	opts     Options
	logger   *slog.Logger
	router   chi.Router
}

// New creates a Server. sessions may be nil, in which case nothing is cached.
func New(views *view.Service, sessions *cache.Sessions, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DefaultWindow <= 0 {
		opts.DefaultWindow = domain.DefaultWindow
	}
	s := &Server{
		views:    views,
		sessions: sessions,
		opts:     opts,
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.scope)

		r.Get("/configs", s.handleConfigs)
		r.Get("/configs/{configID}/range", s.handleTimeRange)
		r.Get("/sensors", s.handleSensors)
		r.Get("/series", s.handleSeries)
		r.Get("/compare/sensors", s.handleCompareSensors)
		r.Get("/compare/tests", s.handleCompareTests)
		r.Get("/actuators", s.handleActuators)
		r.Get("/actuator-events", s.handleActuatorEvents)
		r.Delete("/session", s.handleClearSession)
	})
	return r
}

// instrument records request metrics and an access log line per request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		observability.RecordHTTPRequest(route, status, elapsed.Seconds())
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type scopeKey struct{}

// requestScope is the per-request view of the service: the caller's cache
// session and a collector for fetch diagnostics.
type requestScope struct {
	views       *view.Service
	diagnostics *fetcher.Collector
	session     string
}

// scope binds the session cache and a diagnostics collector to the request
// and applies the query deadline.
func (s *Server) scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := &requestScope{diagnostics: &fetcher.Collector{}}
		views := s.views
		if s.sessions != nil {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
			c, sid, created := s.sessions.Open(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   s.opts.SecureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			views = views.ForSession(c)
			sc.session = sid
		}
		sc.views = views.ReportingTo(sc.diagnostics)

		ctx := context.WithValue(r.Context(), scopeKey{}, sc)
		if s.opts.QueryTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
			defer cancel()
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func scopeFrom(r *http.Request) *requestScope {
	sc, _ := r.Context().Value(scopeKey{}).(*requestScope)
	return sc
}

// ExpireSessions purges idle session caches every interval until ctx is done.
func (s *Server) ExpireSessions(ctx context.Context, every, idle time.Duration) {
	if s.sessions == nil || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.Expire(ctx, idle)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Warn("session expiry failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("expired idle sessions", "count", n)
			}
		}
	}
}
