package main

import (
	"context"
	"disruption-replay-service/internal/adapters/lock"
	"disruption-replay-service/internal/adapters/repositories"
	"disruption-replay-service/internal/api"
	"disruption-replay-service/internal/config"
	"disruption-replay-service/internal/domain"
	"disruption-replay-service/internal/platform/db"
	"disruption-replay-service/internal/platform/logging"
	"disruption-replay-service/internal/ports"
	"disruption-replay-service/internal/services"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (fixture source, replay lock) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, os.Stdout); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher, err := services.NewDispatcher()
	if err != nil {
		return err
	}

	source, closeSource, err := openFixtureSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource.Close()

	fixtures, err := source.LoadFixtures(ctx)
	if err != nil {
		return err
	}

	// Fail fast: bad fixtures or a catalog that points at missing rows never serve traffic.
	store, err := domain.NewFixtureStore(fixtures, dispatcher.Scenarios())
	if err != nil {
		return err
	}
	if err := dispatcher.Validate(store); err != nil {
		return err
	}

	gate, closeGate, err := openReplayGate(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGate.Close()

	engine := services.NewReplayEngine(nil, services.Pacing{
		LogInterval: cfg.LogInterval,
		CardDelay:   cfg.CardDelay,
		RouteDelay:  cfg.RouteDelay,
	})

	router := api.NewRouter(api.Deps{
		Store:       store,
		Dispatcher:  dispatcher,
		Engine:      engine,
		Gate:        gate,
		CORSOrigins: cfg.CORSOrigins,
	})

	// WriteTimeout leaves room for a full replay stream.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"fixtures": cfg.FixtureSource,
			"shared":   cfg.RedisAddr != "",
		}).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

func openFixtureSource(ctx context.Context, cfg config.Config) (ports.FixtureSource, io.Closer, error) {
	switch cfg.FixtureSource {
	case config.SourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresFixtureSource(conn), conn, nil
	default:
		return repositories.NewJSONFixtureSource(cfg.SeedPath), noopCloser, nil
	}
}

// openReplayGate shares the replay slot through Redis when REDIS_ADDR is set,
// otherwise the slot is local to this process.
func openReplayGate(ctx context.Context, cfg config.Config) (ports.SingleFlight, io.Closer, error) {
	if cfg.RedisAddr == "" {
		return lock.NewLocalSingleFlight(), noopCloser, nil
	}

	client, err := lock.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	gate, err := lock.NewRedisSingleFlight(client, lock.DefaultReplayLockKey, cfg.ReplayLockTTL)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return gate, client, nil
}
