package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/uniforms-backend/api/routes"
	"github.com/angelmondragon/uniforms-backend/internal/directory"
	"github.com/angelmondragon/uniforms-backend/internal/transfers"
	"github.com/angelmondragon/uniforms-backend/pkg/config"
	"github.com/angelmondragon/uniforms-backend/pkg/db"
	"github.com/angelmondragon/uniforms-backend/pkg/erp"
	"github.com/angelmondragon/uniforms-backend/pkg/instance"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
	"github.com/angelmondragon/uniforms-backend/pkg/metrics"
	"github.com/angelmondragon/uniforms-backend/pkg/migrate"
	"github.com/angelmondragon/uniforms-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		fail(ctx, logg, "failed to run dev migrations", err, dbClient)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		fail(ctx, logg, "failed to bootstrap redis", err, dbClient)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	erpClient, err := erp.NewClient(
		cfg.ERP.BaseURL,
		cfg.ERP.Token,
		erp.WithTimeout(cfg.ERP.Timeout),
		erp.WithRecorder(metrics.NewERPMetrics(registry)),
	)
	if err != nil {
		fail(ctx, logg, "failed to create erp client", err, redisClient, dbClient)
	}

	directoryRepo := directory.NewRepository(dbClient.DB())
	transferService, err := transfers.NewService(erpClient, directoryRepo, logg)
	if err != nil {
		fail(ctx, logg, "failed to create transfer service", err, redisClient, dbClient)
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			metrics.NewHTTPMetrics(registry),
			transferService,
			directoryRepo,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	if err := closeAll(redisClient, dbClient); err != nil {
		logg.Error(ctx, "error closing resources", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

// closeAll closes every resource and combines their errors.
func closeAll(closers ...io.Closer) error {
	var errs error
	for _, c := range closers {
		if c == nil {
			continue
		}
		errs = multierr.Append(errs, c.Close())
	}
	return errs
}

func fail(ctx context.Context, logg *logger.Logger, msg string, err error, closers ...io.Closer) {
	logg.Error(ctx, msg, err)
	if closeErr := closeAll(closers...); closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
	}
	os.Exit(1)
}
