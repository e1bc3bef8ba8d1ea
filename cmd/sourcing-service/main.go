// sourcing-service: candidate sourcing and outreach orchestration.
//
// Runs keyword searches against the recruiting backend, drives each
// candidate through discovered → outreach → contacted → responded/rejected,
// and renders bilingual outreach messages. Exposes:
//   - a REST API used by the Gateway (per-user sourcing and monitor pages)
//   - a gRPC SourcingService plus health checks for internal callers
//   - a cron loop re-running saved searches
//
// Publishes EVENT_CANDIDATE_STATUS_CHANGED and EVENT_SEARCH_COMPLETED to
// Redis and listens for status changes made elsewhere to drop stale history.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"hiring/sourcing-service/internal/backend"
	"hiring/sourcing-service/internal/config"
	"hiring/sourcing-service/internal/db"
	"hiring/sourcing-service/internal/events"
	"hiring/sourcing-service/internal/grpcserver"
	"hiring/sourcing-service/internal/httpapi"
	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/logger"
	"hiring/sourcing-service/internal/monitor"
	"hiring/sourcing-service/internal/outreach"
	"hiring/sourcing-service/internal/savedsearch"
	"hiring/sourcing-service/internal/scheduler"
	"hiring/sourcing-service/internal/search"
	"hiring/sourcing-service/internal/view"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[sourcing-service] config error", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(cfg.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("[sourcing-service] fatal", "err", err)
		os.Exit(1)
	}
	slog.Info("[sourcing-service] stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	slog.Info("[sourcing-service] connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	repo := savedsearch.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	slog.Info("[sourcing-service] connecting to Redis")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	// ── Domain ───────────────────────────────────────────────────────────────
	catalog, err := search.LoadCatalog(cfg.KeywordCatalog)
	if err != nil {
		return err
	}
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout())
	publisher := events.NewPublisher(rdb)

	store := view.NewStore(view.Deps{
		Backend:   client,
		Publisher: publisher,
		Notifier:  publisher,
		Catalog:   catalog,
		Sender: outreach.Sender{
			Name:    cfg.SenderName,
			Title:   cfg.SenderTitle,
			Company: cfg.SenderCompany,
			Topic:   cfg.SenderTopic,
		},
		Language: cfg.DefaultLanguage,
		Limit:    cfg.CandidateLimit,
	}, monitor.New(client, cfg.ScanTimeout()))

	runner := savedsearch.NewRunner(repo, search.New(client, nil, publisher))
	sched, err := scheduler.New(runner, cfg.IntervalHours)
	if err != nil {
		return err
	}

	// ── Servers ──────────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewHandler(store, repo, runner).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		// no WriteTimeout: batch searches and scans hold the response open
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	gs := grpc.NewServer()
	health := grpcserver.Register(gs, grpcserver.NewServer(store))

	if err := sched.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("[sourcing-service] HTTP listening", "port", cfg.Port, "version", httpapi.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("[sourcing-service] gRPC listening", "port", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return events.Subscribe(gctx, rdb, func(e lifecycle.Event) {
			store.InvalidateCandidate(e.CandidateID)
		})
	})

	// ── Graceful shutdown ────────────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("[sourcing-service] shutting down")
		health.Shutdown()
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[sourcing-service] HTTP shutdown error", "err", err)
		}
		gs.GracefulStop()
		return nil
	})

	return g.Wait()
}
