package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/catalog"
	"ProductCatalog/internal/config"
	"ProductCatalog/pkg/kit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger("catalog", "info").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(cfg.Service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := catalog.Factory{
		Capacity: cfg.Store.Capacity,
		Log:      log,
		Metrics:  catalog.NewServiceMetrics(reg),
	}.CreateProductService()

	deps := catalog.HTTPDeps{
		Log:              log,
		Service:          cfg.Service,
		Registry:         reg,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsToken:     cfg.Metrics.Token,
		WriteLimitPerMin: cfg.Auth.WriteLimitPerMin,
		TrustedProxies:   cfg.Auth.Proxies(),
	}
	if cfg.Auth.JWTSecret != "" {
		deps.Tokens = auth.NewTokenMaker(cfg.Auth.JWTSecret)
	}

	h := catalog.NewHandler(&catalog.Server{Catalog: svc, Log: log}, deps)

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr(), h, cfg.ShutdownTimeout, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
