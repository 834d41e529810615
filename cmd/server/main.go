package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskflow/backend/api/handler"
	"github.com/taskflow/backend/internal/config"
	"github.com/taskflow/backend/internal/infrastructure/buffer"
	"github.com/taskflow/backend/internal/infrastructure/enhancer"
	"github.com/taskflow/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskflow/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskflow/backend/internal/infrastructure/redis"
	"github.com/taskflow/backend/internal/middleware"
	"github.com/taskflow/backend/internal/router"
	"github.com/taskflow/backend/internal/services"
	"github.com/taskflow/backend/internal/services/lifecycle"
	"github.com/taskflow/backend/pkg/httpcontext"
	"github.com/taskflow/backend/pkg/logger"
	"github.com/taskflow/backend/repository/postgres"
	redisRepo "github.com/taskflow/backend/repository/redis"
	"github.com/taskflow/backend/usecase"
	authUC "github.com/taskflow/backend/usecase/auth"
	chatbotUC "github.com/taskflow/backend/usecase/chatbot"
	taskUC "github.com/taskflow/backend/usecase/task"
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

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		userRepo,
		taskRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	// A nil enhancer means every add/enhance takes the fallback path.
	var taskEnhancer usecase.Enhancer
	if cfg.Enhancer.Enabled {
		taskEnhancer = enhancer.NewClient(enhancer.Config{
			URL:     cfg.Enhancer.URL,
			APIKey:  cfg.Enhancer.APIKey,
			Model:   cfg.Enhancer.Model,
			Timeout: cfg.Enhancer.Timeout,
		}, zapLogger)
	}

	authUseCase := authUC.New(userRepo, taskRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	taskUseCase := taskUC.New(taskRepo, bufferBridge, zapLogger)

	// The chatbot talks to the task repository directly: a store fault must
	// surface to the user instead of being buffered behind their back.
	chatbotUseCase := chatbotUC.New(taskRepo, taskEnhancer, chatbotUC.NewKeywordClassifier(), zapLogger, chatbotUC.Config{
		ListLimit:      cfg.Chatbot.ListLimit,
		MatchCompleted: cfg.Chatbot.MatchCompleted,
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		User:    apiHandler.NewUserHandler(userRepo, ctxAdapter, zapLogger),
		Chatbot: apiHandler.NewChatbotHandler(chatbotUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

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
