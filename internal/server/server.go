package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/CrashRound_Go/internal/database"
	"github.com/osse101/CrashRound_Go/internal/handler"
	"github.com/osse101/CrashRound_Go/internal/history"
	"github.com/osse101/CrashRound_Go/internal/logger"
	"github.com/osse101/CrashRound_Go/internal/metrics"
	"github.com/osse101/CrashRound_Go/internal/round"
	"github.com/osse101/CrashRound_Go/internal/sse"
)

// Options carries the HTTP surface settings
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	AllowedOrigins []string
}

// Server is the HTTP front of the round engine
type Server struct {
	httpServer *http.Server
	hub        *sse.Hub
}

// NewServer builds the router. dbPool may be nil when running without a
// database. The hub is stopped as soon as shutdown begins so that open
// streams end instead of holding the shutdown open.
func NewServer(opts Options, dbPool database.Pool, engine round.Service, historySvc history.Service, hub *sse.Hub) *Server {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", HeaderAPIKey},
		AllowCredentials: false,
		MaxAge:           CORSMaxAge,
	}))
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get(PathHealthz, handler.HandleHealthz())
	r.Get(PathReadyz, handler.HandleReadyz(dbPool))
	r.Get(PathVersion, handler.HandleVersion())
	r.Handle(PathMetrics, promhttp.Handler())

	crashHandler := handler.NewCrashHandler(engine, historySvc)
	r.Route(PathAPI, func(r chi.Router) {
		r.Route(PathCrash, func(r chi.Router) {
			r.Get("/stream", sse.Handler(hub))
			r.Get("/ws", sse.WebSocketHandler(hub, websocketOrigins(opts.AllowedOrigins)))
			r.Get("/state", crashHandler.HandleState)
			r.Post("/bet", crashHandler.HandlePlaceBet)
			r.Post("/cashout", crashHandler.HandleCashOut)
			r.Get("/history", crashHandler.HandleHistory)
			r.Get("/verify", crashHandler.HandleVerify)
		})
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           r,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
	httpServer.RegisterOnShutdown(hub.Stop)

	return &Server{
		httpServer: httpServer,
		hub:        hub,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// websocketOrigins turns the CORS origin list into host patterns for the
// websocket handshake check. "*" allows any origin.
func websocketOrigins(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		patterns = append(patterns, o)
	}
	return patterns
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range quietPaths {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// The wrapper keeps Flush and Hijack available for the stream handlers
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", statusOrOK(ww.Status()),
			"bytes", ww.BytesWritten(),
			"duration_ms", duration.Milliseconds())
	})
}

func statusOrOK(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a
// graceful stop.
func (s *Server) Start() error {
	logger.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logger.Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
