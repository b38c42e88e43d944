package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tally/internal/events"
	"tally/internal/forecast"
	"tally/internal/report"
	"tally/internal/seed"
	"tally/internal/session"
	appweb "tally/web"
)

const sessionCookie = "tally_session"

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeySession
)

type Server struct {
	http.Server
	templates   *template.Template
	sessions    *session.Manager
	publisher   *events.Client
	window      int
	demoSeed    bool
	categories  []string
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
// publisher may be nil; record events are then dropped.
func NewServer(addr string, sessions *session.Manager, publisher *events.Client, window int, demoSeed bool, categories []string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		sessions:    sessions,
		publisher:   publisher,
		window:      window,
		demoSeed:    demoSeed,
		categories:  categories,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/", s.withSecurityHeaders(s.withSession(s.handleIndex)))
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.withSession(s.handleCreateTransaction)))
	mux.HandleFunc("/fixed-costs", s.withSecurityHeaders(s.withSession(s.handleCreateFixedCost)))
	mux.HandleFunc("/fixed-costs/deactivate", s.withSecurityHeaders(s.withSession(s.handleDeactivateFixedCost)))
	// UI partials
	mux.HandleFunc("/ui/balances", s.withSecurityHeaders(s.withSession(s.handleBalances)))
	mux.HandleFunc("/ui/categories", s.withSecurityHeaders(s.withSession(s.handleCategories)))
	mux.HandleFunc("/ui/trend", s.withSecurityHeaders(s.withSession(s.handleTrend)))
	mux.HandleFunc("/ui/projection", s.withSecurityHeaders(s.withSession(s.handleProjection)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)

		// Generate request ID for tracing
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Apply rate limiting to writes
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// withSession resolves the caller's ledger session from the session
// cookie, creating a fresh one (and setting the cookie) when absent or
// expired. Every ledger read and write goes through the session's own
// store.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(sessionCookie); err == nil {
			token = c.Value
		}

		sess, created, err := s.sessions.Resolve(token)
		if err != nil {
			slog.ErrorContext(r.Context(), "Session resolution failed", "error", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.Token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			if s.demoSeed {
				if err := seed.Demo(r.Context(), sess.Store); err != nil {
					slog.WarnContext(r.Context(), "Demo seed failed", "error", err, "session", sess.Token)
				}
			}
			slog.InfoContext(r.Context(), "Session created", "session", sess.Token)
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, sess)
		next(w, r.WithContext(ctx))
	}
}

// sessionFrom returns the session placed on the context by withSession.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxKeySession).(*session.Session)
	return sess
}

// reports builds the per-request aggregation and projection engines over
// the session's store. Results are always recomputed from the full
// record history; nothing is cached between requests.
func (s *Server) reports(r *http.Request) (*report.Aggregator, *forecast.Projector) {
	sess := sessionFrom(r)
	agg := report.New(sess.Store)
	return agg, forecast.New(sess.Store, agg, s.window)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func formatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := cents / 100
	rem := cents % 100
	out := strconv.FormatInt(euros, 10) + "," + fmt.Sprintf("%02d", rem)
	if neg {
		return "-€" + out
	}
	return "€" + out
}
