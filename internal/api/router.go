package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"

	"github.com/projecthelena/tictactoe/internal/config"
	_ "github.com/projecthelena/tictactoe/internal/docs"
	"github.com/projecthelena/tictactoe/internal/metrics"
	"github.com/projecthelena/tictactoe/internal/render"
	"github.com/projecthelena/tictactoe/internal/static"
	"github.com/projecthelena/tictactoe/web"
)

// SecureHeadersWithConfig returns middleware that adds security headers including HSTS when HTTPS is enabled.
func SecureHeadersWithConfig(cookieSecure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			// HSTS: Only enable when using secure cookies (HTTPS deployment)
			if cookieSecure {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter builds the HTTP router serving the game page, its static assets
// and the JSON endpoints. The rate limiter's cleanup goroutine stops when
// ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, pages *render.Renderer, store sessions.Store, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	// Only trust X-Forwarded-For when running behind a known reverse proxy;
	// otherwise clients could pick their own rate limit bucket.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}

	r.Use(SecureHeadersWithConfig(cfg.CookieSecure))

	httpMetrics := metrics.NewHTTPMetrics(reg)
	r.Use(httpMetrics.Middleware)
	r.Use(SessionMiddleware(store))

	apiLimiter := NewIPRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	pageH := NewPageHandler(pages)
	healthH := NewHealthHandler(clockwork.NewRealClock(),
		HealthCheck{Name: "templates", Check: func(context.Context) error { return pages.Check() }},
		HealthCheck{Name: "static_dir", Check: dirCheck(cfg.StaticDir)},
	)

	r.Get("/", pageH.Index)
	r.Get("/health", Health)

	// Probes and operational endpoints (no rate limiting)
	r.Get("/healthz", healthH.Healthz)
	r.Get("/readyz", healthH.Readyz)
	r.Get("/version", Version)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))

	r.Route("/api", func(api chi.Router) {
		api.Use(RateLimitMiddleware(apiLimiter))

		api.Get("/game-stats", GetGameStats)
		api.Post("/save-stats", SaveStats)

		// API Documentation (Swagger UI)
		api.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/api/docs/doc.json"),
		))
	})

	r.Handle("/static/*", http.StripPrefix("/static", static.NewHandler(web.Static(cfg.StaticDir))))

	return r
}

func dirCheck(dir string) func(context.Context) error {
	return func(context.Context) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return &os.PathError{Op: "stat", Path: dir, Err: os.ErrInvalid}
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
