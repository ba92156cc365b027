package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/cybertodo/backend/api/handler"
	"github.com/cybertodo/backend/internal/config"
	"github.com/cybertodo/backend/internal/infrastructure/monitor"
	pgInfra "github.com/cybertodo/backend/internal/infrastructure/postgres"
	redisInfra "github.com/cybertodo/backend/internal/infrastructure/redis"
	"github.com/cybertodo/backend/internal/middleware"
	"github.com/cybertodo/backend/internal/router"
	"github.com/cybertodo/backend/internal/services/lifecycle"
	"github.com/cybertodo/backend/pkg/httpcontext"
	"github.com/cybertodo/backend/pkg/logger"
	"github.com/cybertodo/backend/pkg/password"
	"github.com/cybertodo/backend/repository/postgres"
	redisRepo "github.com/cybertodo/backend/repository/redis"
	authUC "github.com/cybertodo/backend/usecase/auth"
	profileUC "github.com/cybertodo/backend/usecase/profile"
	todoUC "github.com/cybertodo/backend/usecase/todo"
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

	mon := monitor.New(pool, redisClient, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	todoRepo := postgres.NewTodoRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	hasher := password.NewHasher()
	tokens := authUC.NewTokenManager(cfg.Session.Secret)

	authUseCase := authUC.New(userRepo, sessionRepo, hasher, tokens, cfg.Session.TTL, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	todoUseCase := todoUC.New(todoRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Session.CookieName, cfg.Session.TTL),
		Todo:    apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionAuth := middleware.SessionAuth(authUseCase, cfg.Session.CookieName, zapLogger)
	r := router.New(handlers, sessionAuth)

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
