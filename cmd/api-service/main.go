package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/jobreel/internal/api/handler"
	"github.com/cuongbtq/jobreel/internal/api/router"
	"github.com/cuongbtq/jobreel/internal/api/storage"
	"github.com/cuongbtq/jobreel/internal/config"
	"github.com/cuongbtq/jobreel/internal/content"
	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/platform"
	"github.com/cuongbtq/jobreel/internal/reel"
	"github.com/cuongbtq/jobreel/internal/workflow"
	"github.com/cuongbtq/jobreel/shared/logger"
	"github.com/cuongbtq/jobreel/shared/postgresql"
	"github.com/cuongbtq/jobreel/shared/rabbitmq"
	"github.com/cuongbtq/jobreel/shared/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// draftStore is a store the service can also sweep
type draftStore interface {
	storage.DraftStore
	storage.Sweeper
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLogger.Close() }()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
	)

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}()

	store, closeStore, err := initStore(cfg, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize draft store: %w", err)
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	publisher := events.Publisher(events.NoopPublisher{})
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		closers = append(closers, rabbitClient.Close)
		publisher = events.NewRabbitMQPublisher(rabbitClient, appLogger.Component("events"))
		appLogger.Info("RabbitMQ connection established")
	}

	renderer := reel.NewRenderer(reel.Config{
		OutputDir:     cfg.Reel.OutputDir,
		PublicBaseURL: cfg.Reel.PublicBaseURL,
		DefaultStyle:  cfg.Reel.DefaultStyle,
	}, appLogger.Component("reel"))
	if err := renderer.EnsureDirs(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Reel.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	service := workflow.NewService(&workflow.Dependencies{
		Logger:    appLogger.Component("workflow"),
		Store:     store,
		Generator: content.NewGenerator(initEnhancer(cfg, creds, appLogger.Logger), appLogger.Component("content")),
		Renderer:  renderer,
		Platforms: platform.NewDefaultRegistry(creds, cfg.Platforms),
		Publisher: publisher,
		Config: workflow.Config{
			DefaultPlatforms:   cfg.Reel.DefaultPlatforms,
			PlainPostPlatforms: cfg.Platforms.PlainPostPlatforms,
			DefaultStyle:       cfg.Reel.DefaultStyle,
			Retention:          cfg.Storage.Retention,
		},
	})

	// PostgreSQL stores report pool health on /api/health
	dbHealth, _ := store.(handler.DatabaseHealth)

	// Initialize router
	r := initRouter(cfg, appLogger.Logger, service, dbHealth)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Storage.Driver != config.StoragePostgres {
		// the worker service sweeps PostgreSQL
		go sweepDrafts(sweepCtx, store, cfg.Storage.SweepInterval, appLogger.Logger)
	}

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
		slog.Any("platforms", cfg.Reel.DefaultPlatforms),
		slog.Bool("ai_enhancement", creds.HasOpenAIKey()),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...",
			slog.String("signal", sig.String()),
		)
	case err := <-serverErr:
		appLogger.Error("Server failed to start",
			slog.Any("error", err),
		)
		return err
	}

	stopSweep()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initStore builds the draft store selected by storage.driver and its close func
func initStore(cfg *config.Config, logger *slog.Logger) (draftStore, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		dbClient, err := initPostgreSQL(&cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewPostgresStore(dbClient, time.Now)
		if cfg.Database.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := store.EnsureSchema(ctx); err != nil {
				_ = dbClient.Close()
				return nil, nil, err
			}
		}
		logger.Info("Database connection established")
		return store, dbClient.Close, nil

	case config.StorageRedis:
		redisClient, err := redis.NewClient(&redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(redisClient.GetClient(), cfg.Redis.KeyPrefix, time.Now), redisClient.Close, nil

	default:
		return storage.NewMemoryStore(time.Now), nil, nil
	}
}

// initEnhancer returns the OpenAI enhancer when a usable key is configured
func initEnhancer(cfg *config.Config, creds *config.Credentials, logger *slog.Logger) content.Enhancer {
	if !creds.HasOpenAIKey() {
		logger.Info("OpenAI key not configured, using parsed content only")
		return content.NoopEnhancer{}
	}

	return content.NewOpenAIEnhancer(content.OpenAIConfig{
		APIKey:    creds.OpenAIAPIKey,
		BaseURL:   cfg.Enhancer.BaseURL,
		Model:     cfg.Enhancer.Model,
		MaxTokens: cfg.Enhancer.MaxTokens,
		Timeout:   cfg.Enhancer.Timeout,
	})
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, logger *slog.Logger, service *workflow.Service, database handler.DatabaseHealth) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize handler dependencies
	handlerDeps := &handler.Dependencies{
		Logger:   logger,
		Workflow: service,
		Uploads: handler.UploadConfig{
			Dir:      cfg.Reel.UploadDir,
			MaxBytes: cfg.Reel.MaxUploadBytes,
		},
		Database:       database,
		PlainPlatforms: cfg.Platforms.PlainPostPlatforms,
		Production:     cfg.App.IsProduction(),
		StartedAt:      time.Now(),
	}

	// Setup router
	return router.SetupRouter(handlerDeps, router.Options{
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		MediaDir:          cfg.Reel.OutputDir,
	})
}

// sweepDrafts removes expired drafts every interval until ctx is canceled
func sweepDrafts(ctx context.Context, store storage.Sweeper, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Sweep(ctx, now)
			if err != nil {
				logger.Warn("Failed to sweep expired drafts", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("Expired drafts swept", slog.Int("count", n))
			}
		}
	}
}
