package catalog

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/pkg/kit"
)

const (
	defaultWriteLimitPerMin = 30
	limitWindow             = 60 * time.Second
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Tokens guards POST /products. Writes are open when nil.
	Tokens           *auth.TokenMaker
	WriteLimitPerMin int
	TrustedProxies   []netip.Prefix
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	limit := deps.WriteLimitPerMin
	if limit <= 0 {
		limit = defaultWriteLimitPerMin
	}
	writeLimiter := kit.NewIPRateLimiter(limit, int(limitWindow.Seconds()), deps.TrustedProxies...)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)

	r.Route("/products", func(rr chi.Router) {
		rr.Get("/", s.search)

		rr.Group(func(wr chi.Router) {
			wr.Use(writeLimiter.Middleware)
			if deps.Tokens != nil {
				wr.Use(auth.RequireRole(deps.Tokens, auth.RoleEditor))
			} else {
				deps.Log.Warn("product writes are not authenticated")
			}
			wr.Post("/", s.add)
		})
	})
}
