package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "agora/internal/http"
	jwttoken "agora/internal/jwt_token"
	"agora/internal/platform/config"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/logger"
	platformmetrics "agora/internal/platform/metrics"
	"agora/internal/ratelimit"
	"agora/internal/registration/handler"
	regmetrics "agora/internal/registration/metrics"
	"agora/internal/registration/provisioning"
	"agora/internal/registration/service"
)

const tokenAudience = "registration"

// main wires configuration, backends and the HTTP router, then serves until
// SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	if cfg.UsesDefaultSigningKey() {
		log.Warn("JWT_SIGNING_KEY is not set; using the development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	go func() {
		_ = b.auditWorker.Run(workerCtx)
	}()

	regMetrics := regmetrics.New(reg)
	saga := provisioning.New(b.issuer, b.blobs, b.profiles,
		provisioning.WithLogger(log),
		provisioning.WithMetrics(regMetrics),
	)
	svc, err := service.New(b.sessions, saga, cfg.Flows(),
		service.WithLogger(log),
		service.WithMetrics(regMetrics),
		service.WithAuditPublisher(b.audit),
	)
	if err != nil {
		return err
	}

	limiter := ratelimit.NewMiddleware(b.rateLimits, log)
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, tokenAudience)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Metrics:  platformmetrics.New(reg),
		Gatherer: reg,
		Registration: handler.New(svc, tokens, jwttoken.NewJWTServiceAdapter(tokens), cfg.Registration.SessionTTL, log,
			handler.WithStartLimit(limiter.PerIP("registration_start", cfg.Registration.StartLimit, cfg.Registration.StartLimitWindow)),
		),
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting agora", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server shut down")
	return nil
}
