package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jet23058/caloriesnap/internal/config"
	"github.com/jet23058/caloriesnap/internal/estimate"
	"github.com/jet23058/caloriesnap/internal/identity"
	"github.com/jet23058/caloriesnap/internal/logbook"
	"github.com/jet23058/caloriesnap/internal/logger"
	"github.com/jet23058/caloriesnap/internal/store"
)

// Estimator is the photo-analysis collaborator. nil means estimation
// is not configured and /api/estimate reports that.
type Estimator interface {
	Estimate(ctx context.Context, imageDataURI string) (*estimate.Result, error)
}

// AccountSync mirrors sign-ins to the shared database. nil means the
// app runs purely locally.
type AccountSync interface {
	RecordSignIn(ctx context.Context, user identity.User, profile logbook.UserProfile) error
}

// NewServer creates and configures the HTTP server for the JSON API.
// estimator and accounts may be nil.
func NewServer(st *store.Store, cfg *config.Config, log *logger.Logger, estimator Estimator, accounts AccountSync, version, bind string, port int) *http.Server {
	if log == nil {
		log = logger.Nop()
	}

	h := &Handlers{
		store:     st,
		cfg:       cfg,
		log:       log,
		estimator: estimator,
		accounts:  accounts,
		version:   version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	mux.HandleFunc("GET /api/entries", h.HandleListEntries)
	mux.HandleFunc("POST /api/entries", h.HandleLogEntry)
	mux.HandleFunc("GET /api/entries/{id}", h.HandleGetEntry)
	mux.HandleFunc("PATCH /api/entries/{id}", h.HandleEditEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", h.HandleDeleteEntry)

	mux.HandleFunc("POST /api/estimate", h.HandleEstimate)

	mux.HandleFunc("GET /api/water", h.HandleWaterProgress)
	mux.HandleFunc("POST /api/water", h.HandleAddWater)
	mux.HandleFunc("DELETE /api/water/{day}", h.HandleResetWater)
	mux.HandleFunc("DELETE /api/water/{day}/{id}", h.HandleDeleteWater)

	mux.HandleFunc("GET /api/profile", h.HandleGetProfile)
	mux.HandleFunc("PUT /api/profile", h.HandleUpdateProfile)
	mux.HandleFunc("DELETE /api/profile", h.HandleResetProfile)
	mux.HandleFunc("GET /api/metrics", h.HandleMetrics)

	mux.HandleFunc("GET /api/settings", h.HandleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.HandleUpdateSettings)

	mux.HandleFunc("GET /api/calendar", h.HandleCalendar)

	mux.HandleFunc("GET /api/status", h.HandleStatus)
	mux.HandleFunc("POST /api/status/dismiss", h.HandleDismissStatus)

	mux.HandleFunc("POST /api/session", h.HandleSession)

	handler := securityHeaders(requestLogger(log, mux))

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with its status and latency.
func requestLogger(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		log.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"latency", time.Since(start),
			"ip", clientIP(r),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return fwd
	}
	return r.RemoteAddr
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infow("CalorieSnap API running", "addr", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warnw("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Infow("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
