package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotelops/config"
	"hotelops/cron"
	"hotelops/database"
	"hotelops/database/memory"
	"hotelops/database/repository"
	"hotelops/handlers"
	"hotelops/middleware"
	"hotelops/routes"
	"hotelops/services/billing"
	"hotelops/services/booking"
	"hotelops/services/guest"
	"hotelops/services/notification"
	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	reconcileInterval   = time.Minute
	healthCheckInterval = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store.
	repos, txn, mongoClient, err := openStore(cfg)
	if err != nil {
		logger.Fatal("main: failed to open store", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}
	logger.Info("Store ready", zap.String("driver", cfg.DatabaseDriver))

	// Services.
	guestService := guest.NewDefaultGuestService(repos.Guests)
	billingService := billing.NewDefaultBillingService(repos.Billings, txn)
	billingService.TxnTimeout = cfg.TxnTimeout

	confirmations := &notification.ConfirmationHandler{
		Notifications: repos.Notifications,
		Guests:        repos.Guests,
		Logger:        logger,
	}
	if cfg.FirebaseCredentialsPath != "" {
		push, err := utils.NewMessagingClient(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Warn("Push notifications disabled", zap.Error(err))
		} else {
			confirmations.Push = push
		}
	}

	var (
		dispatcher   notification.Dispatcher = &notification.InlineDispatcher{Handler: confirmations}
		idempotency  middleware.IdempotencyStore
		redisClients []*redis.Client
		asynqClient  *asynq.Client
		redisOpt     asynq.RedisClientOpt
	)
	if cfg.RedisEnabled() {
		cacheClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Fatal("main: redis cache unavailable", zap.Error(err))
		}
		queueClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisQueueDB)
		if err != nil {
			logger.Fatal("main: redis queue unavailable", zap.Error(err))
		}
		redisClients = []*redis.Client{cacheClient, queueClient}
		idempotency = middleware.NewRedisIdempotencyStore(cacheClient)

		redisOpt = asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		asynqClient = asynq.NewClient(redisOpt)
		dispatcher = notification.NewAsynqDispatcher(asynqClient)
	} else {
		logger.Warn("REDIS_ADDR not set: confirmations are delivered inline and idempotency keys are ignored")
	}

	orchestrator := booking.NewOrchestrator(repos, txn, guestService, billingService, dispatcher, logger, booking.Options{
		TxnTimeout:    cfg.TxnTimeout,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	// Background work.
	var (
		worker    *cron.Worker
		scheduler *asynq.Scheduler
	)
	if cfg.RedisEnabled() {
		worker = cron.NewWorker(redisOpt, cfg.WorkerConcurrency, confirmations, orchestrator, logger)
		worker.Start()

		scheduler, err = cron.NewReconcileScheduler(redisOpt, reconcileInterval, logger)
		if err != nil {
			logger.Fatal("main: failed to create scheduler", zap.Error(err))
		}
		if err := scheduler.Start(); err != nil {
			logger.Fatal("main: failed to start scheduler", zap.Error(err))
		}
	} else {
		go cron.RunReconcileTicker(ctx, orchestrator, reconcileInterval, logger)
	}

	monitor := utils.NewHealthMonitor(mongoClient, redisClients...)
	monitor.Start(ctx, healthCheckInterval)

	// HTTP.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.NewRateLimiter(cfg.MaxRequestsPerMin).Middleware(logger))

	handlerBundle := handlers.NewHandlerBundle(orchestrator, billingService, monitor)
	routes.RegisterRoutes(router, handlerBundle, routes.Dependencies{
		Config:      cfg,
		Auth:        utils.NewTokenAuthenticator(cfg.JWTSecret),
		Idempotency: idempotency,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}
	for _, c := range redisClients {
		_ = c.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}

	logger.Info("main: server stopped gracefully")
}

// openStore returns the repositories and transaction boundary for the
// configured driver. The Mongo client is nil for the memory driver.
func openStore(cfg *config.Config) (*repository.Set, database.Transactor, *mongo.Client, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		store := memory.New()
		return store.Repositories(), store, nil, nil
	}

	client, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	repos, err := repository.NewMongoSet(client.Database(cfg.DatabaseName))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, nil, err
	}
	return repos, database.NewMongoTransactor(client), client, nil
}
