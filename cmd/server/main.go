package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/disciplinehub/backend/api/handler"
	"github.com/disciplinehub/backend/internal/config"
	"github.com/disciplinehub/backend/internal/infrastructure/gueststore"
	"github.com/disciplinehub/backend/internal/infrastructure/monitor"
	pgInfra "github.com/disciplinehub/backend/internal/infrastructure/postgres"
	redisInfra "github.com/disciplinehub/backend/internal/infrastructure/redis"
	"github.com/disciplinehub/backend/internal/middleware"
	"github.com/disciplinehub/backend/internal/router"
	"github.com/disciplinehub/backend/internal/services"
	"github.com/disciplinehub/backend/internal/services/lifecycle"
	"github.com/disciplinehub/backend/pkg/httpcontext"
	"github.com/disciplinehub/backend/pkg/keylock"
	"github.com/disciplinehub/backend/pkg/logger"
	"github.com/disciplinehub/backend/repository/postgres"
	redisRepo "github.com/disciplinehub/backend/repository/redis"
	authUC "github.com/disciplinehub/backend/usecase/auth"
	challengeUC "github.com/disciplinehub/backend/usecase/challenge"
	progressionUC "github.com/disciplinehub/backend/usecase/progression"
	taskUC "github.com/disciplinehub/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	guestStore, err := gueststore.Open(cfg.GuestStore.Path, "guest_tasks")
	if err != nil {
		zapLogger.Fatal("failed to open guest store", zap.Error(err))
	}
	manager.Register("guest_store", func(ctx context.Context) error {
		return guestStore.Close()
	})

	mon := monitor.New(pool, redisClient, guestStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	focusRepo := postgres.NewFocusSessionRepository(pool)
	challengeRepo := postgres.NewChallengeRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, 24*time.Hour)

	guestSync := services.NewGuestSyncProcessor(
		guestStore,
		mon,
		taskRepo,
		zapLogger,
		services.SyncConfig{
			Interval:   cfg.GuestStore.SyncInterval,
			BatchSize:  cfg.GuestStore.BatchSize,
			MaxRetries: cfg.GuestStore.MaxRetry,
		},
	)
	guestSync.Start()
	manager.Register("guest_sync", func(ctx context.Context) error {
		guestSync.Stop(ctx)
		return nil
	})

	locks := keylock.New()

	progressionUseCase := progressionUC.New(userRepo, taskRepo, focusRepo, analyticsRepo, locks, zapLogger)
	taskUseCase := taskUC.New(taskRepo, progressionUseCase, analyticsRepo, locks, zapLogger)
	challengeUseCase := challengeUC.New(challengeRepo, taskRepo, guestStore, analyticsRepo, zapLogger)
	authUseCase := authUC.New(userRepo, sessionRepo, guestStore, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:        apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, time.Hour),
		Task:        apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Progression: apiHandler.NewProgressionHandler(progressionUseCase, ctxAdapter, zapLogger),
		Challenge:   apiHandler.NewChallengeHandler(challengeUseCase, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	optionalAuth := middleware.OptionalJWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware, optionalAuth)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
