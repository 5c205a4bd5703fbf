package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/item-tracker/config"
	"github.com/ErlanBelekov/item-tracker/internal/email"
	"github.com/ErlanBelekov/item-tracker/internal/health"
	"github.com/ErlanBelekov/item-tracker/internal/infrastructure/memory"
	"github.com/ErlanBelekov/item-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/item-tracker/internal/log"
	"github.com/ErlanBelekov/item-tracker/internal/metrics"
	"github.com/ErlanBelekov/item-tracker/internal/repository"
	"github.com/ErlanBelekov/item-tracker/internal/token"
	httptransport "github.com/ErlanBelekov/item-tracker/internal/transport/http"
	"github.com/ErlanBelekov/item-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/item-tracker/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var (
		userRepo repository.UserRepository
		itemRepo repository.ItemRepository
		deps     = map[string]health.Pinger{}
	)

	switch cfg.Storage {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			stop()
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()

		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, pool, "up"); err != nil {
				stop()
				pool.Close()
				log.Fatalf("migrate: %v", err)
			}
			logger.Info("migrations applied")
		}

		userRepo = postgres.NewUserRepository(pool)
		itemRepo = postgres.NewItemRepository(pool)
		deps["postgres"] = pool
	default:
		// Data lives for the lifetime of the process.
		users := memory.NewUserRepository()
		userRepo = users
		itemRepo = memory.NewItemRepository(users)
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	// Auth
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, issuer, sender, logger, cfg.BcryptCost)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Items
	itemUsecase := usecase.NewItemUsecase(itemRepo)
	itemHandler := handler.NewItemHandler(itemUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Auth:   authHandler,
			Items:  itemHandler,
			Health: handler.NewHealthHandler(checker),
		}, authUsecase, userRepo),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, prometheus.DefaultGatherer, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
