// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Oddscorp-AI/banking-transfer/config"
	"github.com/Oddscorp-AI/banking-transfer/db"
	"github.com/Oddscorp-AI/banking-transfer/events"
	"github.com/Oddscorp-AI/banking-transfer/handler"
	"github.com/Oddscorp-AI/banking-transfer/logger"
	"github.com/Oddscorp-AI/banking-transfer/repository"
	"github.com/Oddscorp-AI/banking-transfer/router"
	"github.com/Oddscorp-AI/banking-transfer/service"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// App is the fully wired API. Redis and the publisher are optional.
type App struct {
	DB          *sql.DB
	Redis       *redis.Client
	Publisher   events.Publisher
	Router      http.Handler
	Accounts    *service.AccountService
	Ledger      *service.TransactionService
	Statements  *service.StatementService
	Users       *service.UserService
	AuthService *service.AuthService
}

// New wires repositories, services, handlers and the router on top of the
// given connections, using config.AppConfig for the tunables.
func New(database *sql.DB, redisClient *redis.Client, publisher events.Publisher) (*App, error) {
	cfg := config.AppConfig

	ledgerOpts, err := ledgerOptions(cfg.Ledger)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	accountRepo := repository.NewAccountRepository()
	transactionRepo := repository.NewTransactionRepository()
	settingRepo := repository.NewSettingRepository()
	userRepo := repository.NewUserRepository(database)

	var cache *service.AccountCache
	var limiter *handler.RateLimiter
	if redisClient != nil {
		cache = service.NewAccountCache(redisClient, cfg.Redis.CacheTTL)
		limiter = handler.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	authorizer := service.NewAuthorizer(userRepo)
	allocator := service.NewAccountNumberAllocator(database, accountRepo, cfg.Ledger.AccountNumberLength, cfg.Ledger.MaxAllocationAttempts)

	a := &App{
		DB:          database,
		Redis:       redisClient,
		Publisher:   publisher,
		Accounts:    service.NewAccountService(database, accountRepo, allocator, authorizer, cache),
		Ledger:      service.NewTransactionService(database, accountRepo, transactionRepo, settingRepo, authorizer, cache, publisher, ledgerOpts),
		Statements:  service.NewStatementService(database, accountRepo, transactionRepo, authorizer, ledgerOpts.Location),
		Users:       service.NewUserService(userRepo),
		AuthService: service.NewAuthService(userRepo, cfg.JWT.SecretKey, cfg.JWT.TTL),
	}

	a.Router = router.NewRouter(router.Handlers{
		Health:       handler.NewHealthHandler(database),
		Users:        handler.NewUserHandler(a.Users, a.AuthService),
		Accounts:     handler.NewAccountHandler(a.Accounts, a.Ledger),
		Transactions: handler.NewTransactionHandler(a.Ledger, a.Statements),
		Tokens:       a.AuthService,
		RateLimiter:  limiter,
	})
	return a, nil
}

func ledgerOptions(cfg config.LedgerConfig) (service.LedgerOptions, error) {
	minimum, err := decimal.NewFromString(cfg.MinimumAmount)
	if err != nil {
		return service.LedgerOptions{}, fmt.Errorf("invalid ledger.minimum_amount %q: %w", cfg.MinimumAmount, err)
	}
	limit, err := decimal.NewFromString(cfg.DefaultDailyLimit)
	if err != nil {
		return service.LedgerOptions{}, fmt.Errorf("invalid ledger.default_daily_limit %q: %w", cfg.DefaultDailyLimit, err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return service.LedgerOptions{}, fmt.Errorf("invalid ledger.timezone %q: %w", cfg.Timezone, err)
	}
	return service.LedgerOptions{
		MinimumAmount:     minimum,
		DefaultDailyLimit: limit,
		Location:          loc,
	}, nil
}

// Run starts the API and blocks until SIGINT or SIGTERM. Startup failures
// exit the process only after every resource opened so far has been closed.
func Run() {
	if err := run(); err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.Info("Server exited properly")
}

func run() error {
	if err := config.LoadConfig("."); err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	logger.Init(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		return fmt.Errorf("error connecting to the database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(config.AppConfig.Database.MigrationsPath, config.AppConfig.DatabaseURL()); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	var redisClient *redis.Client
	if config.AppConfig.Redis.Enabled {
		redisClient, err = db.ConnectRedis()
		if err != nil {
			// Cache and rate limiting are optional; the ledger is not.
			logger.Log.WithError(err).Warn("Redis unavailable, running without cache and rate limiter")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(config.AppConfig.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(config.AppConfig.Kafka.Brokers, config.AppConfig.Kafka.Topic)
		logger.Log.WithField("topic", config.AppConfig.Kafka.Topic).Info("Publishing ledger events to Kafka")
	}
	defer publisher.Close()

	a, err := New(database, redisClient, publisher)
	if err != nil {
		return fmt.Errorf("error wiring application: %w", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
