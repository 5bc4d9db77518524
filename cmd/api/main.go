package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/yatrafest/reghub/internal/config"
	"github.com/yatrafest/reghub/internal/db"
	httpx "github.com/yatrafest/reghub/internal/http"
	"github.com/yatrafest/reghub/internal/notifications"
	"github.com/yatrafest/reghub/internal/observability"
	"github.com/yatrafest/reghub/internal/redisclient"
	"github.com/yatrafest/reghub/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is optional, only wired when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "reghub-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to postgres", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	// best effort: a seeded admin is a convenience, not a startup gate
	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	if err := db.EnsureAdminUser(seedCtx, pool, cfg); err != nil {
		log.Warn("admin seed failed", "err", err)
	}
	cancelSeed()

	rds := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer func() { _ = rds.Close() }()

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
	if err := rds.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, duplicate fast-path disabled", "err", err)
	}
	cancelPing()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(promReg)

	// confirmation pipeline: local log sink when no mail function is
	// configured, otherwise the HTTP trigger behind a circuit breaker
	var notifier notifications.Notifier

	if cfg.MailFnURL == "" {
		log.Warn("MAILFN_URL not set, confirmations will only be logged")
		notifier = notifications.NewLogNotifier(log)
	} else {
		notifier = notifications.NewProtectedNotifier(
			notifications.NewHTTPNotifier(cfg.MailFnURL, cfg.AnonKey),
			notifications.ProtectedNotifierConfig{},
		)
	}

	deliveries := postgres.NewDeliveriesRepo(pool)
	dispatcher := notifications.NewDispatcher(notifier, deliveries, prom, log)

	router := httpx.NewRouter(cfg, log, pool, rds, prom, promReg, dispatcher)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		// let in-flight confirmation sends finish
		dispatcher.Wait()
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
