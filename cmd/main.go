package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-service/config"
	appuser "github.com/oksasatya/go-user-service/internal/application"
	repouser "github.com/oksasatya/go-user-service/internal/domain/repository"
	"github.com/oksasatya/go-user-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-service/internal/infrastructure/postgres"
	mqinfra "github.com/oksasatya/go-user-service/internal/infrastructure/rabbitmq"
	"github.com/oksasatya/go-user-service/internal/infrastructure/search"
	"github.com/oksasatya/go-user-service/internal/router"
	"github.com/oksasatya/go-user-service/pkg/helpers"
	"github.com/oksasatya/go-user-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	repo, closeRepo, err := openStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeRepo()

	// Redis is only used for rate limiting; without it requests are not limited.
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable, rate limiting disabled")
		_ = rdb.Close()
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	deps := appuser.Deps{
		Repo:   repo,
		Hasher: helpers.NewBcryptHasher(cfg.BcryptCost),
		Logger: logger,
	}
	if idx := openSearch(cfg, logger); idx != nil {
		deps.Index = idx
	}
	if n, closeMQ := openNotifier(cfg, logger); n != nil {
		deps.Notifier = n
		defer closeMQ()
	}

	r, err := router.NewEngine(router.EngineOptions{
		Logger:         logger,
		CORSOrigins:    cfg.CORSOrigins(),
		HTTPLog:        cfg.HTTPLogEnabled || cfg.Env == "development",
		TrustedProxies: cfg.TrustedProxies(),
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, router.Deps{
		UseCases:           appuser.NewUseCases(deps),
		Redis:              rdb,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		BypassPrivateIPs:   cfg.RateLimitBypassPrivate,
		DebugMetrics:       cfg.DebugMetricsEnabled,
	})
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// openStorage returns the user repository selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repouser.UserRepository, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	case "postgres", "":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		return pginfra.NewUserRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func openSearch(cfg *config.Config, logger *logrus.Logger) *search.UserIndex {
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		return nil
	}
	es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch unavailable, search disabled")
		return nil
	}
	return search.NewUserIndex(es, cfg.ESUsersIndex)
}

// openNotifier connects the welcome email publisher when mail is enabled.
func openNotifier(cfg *config.Config, logger *logrus.Logger) (*mqinfra.WelcomeNotifier, func()) {
	if !cfg.MailSendEnabled || cfg.RabbitMQURL == "" {
		return nil, nil
	}
	q, err := helpers.DialRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, logger)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, welcome emails disabled")
		return nil, nil
	}
	return mqinfra.NewWelcomeNotifier(q, cfg.CompanyName, cfg.SupportURL), q.Close
}
