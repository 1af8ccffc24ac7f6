package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"quorum/internal/eligibility"
	eligibilityhandler "quorum/internal/eligibility/handler"
	"quorum/internal/platform/config"
	"quorum/internal/platform/httpserver"
	"quorum/internal/platform/logger"
	"quorum/internal/platform/metrics"
	platformredis "quorum/internal/platform/redis"
	"quorum/internal/storage"
	httptransport "quorum/internal/transport/http"
	"quorum/internal/voting"
	votinghandler "quorum/internal/voting/handler"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var kv storage.KV = storage.NewMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		kv = storage.NewRedis(redisClient.Client)
		log.Info("using redis store")
	} else {
		log.Info("no redis configured, using in-memory store")
	}

	m := metrics.New()

	var checker eligibility.Client
	if cfg.EligibilityURL != "" {
		checker = eligibility.NewHTTPClient(cfg.EligibilityURL, cfg.EligibilityTimeout)
		log.Info("remote eligibility checks enabled", "url", cfg.EligibilityURL)
	}
	eligibilitySvc := eligibility.NewService(checker, eligibility.NewAuditStore(kv), log, m)

	votingSvc := voting.NewService(
		voting.NewStore(kv),
		eligibilitySvc,
		log,
		m,
		voting.WithDefaultDuration(cfg.DefaultSessionMinutes),
	)

	router := httptransport.NewRouter(log, m,
		votinghandler.New(votingSvc, log),
		eligibilityhandler.New(eligibilitySvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting quorum", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
