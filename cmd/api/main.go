// @title Crew Exam API
// @version 1.0
// @description Question bank, test authoring and timed attempts for seafarer competency checks.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "crew-exam/cmd/api/docs"
	"crew-exam/internal/adapter"
	"crew-exam/internal/adapter/spreadsheet"
	"crew-exam/internal/cache"
	"crew-exam/internal/config"
	"crew-exam/internal/database"
	"crew-exam/internal/handler"
	"crew-exam/internal/logger"
	"crew-exam/internal/metrics"
	"crew-exam/internal/middleware"
	"crew-exam/internal/repository"
	"crew-exam/internal/service"
	"crew-exam/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const (
	rateLimitIdle     = 10 * time.Minute
	rateLimitInterval = time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	metrics.Init()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis Client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize repositories
	referenceRepo := repository.NewReferenceDatabaseAdapter(db)
	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	testRepo := repository.NewTestDatabaseAdapter(db)
	testQuestionRepo := repository.NewSQLXTestQuestionRepository(db)
	attemptRepo := repository.NewSQLXAttemptRepository(db)
	responseRepo := repository.NewSQLXResponseRepository(db)
	profileRepo := repository.NewSQLXCrewProfileRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	authService, err := service.NewAuthService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	statsCache := service.NewStatsCacheService(cacheAdapter, cfg.Stats.CacheTTL)
	assembler := service.NewTestAssembler(testQuestionRepo, questionRepo, service.NewAttemptOrderCache(cacheAdapter), nil, cfg.Attempt.OrderCacheTTL)
	codec := spreadsheet.NewExcelizeCodec()

	referenceService := service.NewReferenceService(referenceRepo)
	questionService := service.NewQuestionService(questionRepo, referenceRepo, txManager)
	importService := service.NewImportService(questionRepo, referenceRepo, txManager, codec, cfg.Import)
	exportService := service.NewExportService(questionRepo, referenceRepo, codec)
	testService := service.NewTestService(testRepo, testQuestionRepo, questionRepo, attemptRepo, txManager, statsCache)
	attemptService := service.NewAttemptService(testRepo, attemptRepo, responseRepo, assembler, txManager, statsCache, cfg.Attempt)
	catalogueService := service.NewCatalogueService(testRepo, testQuestionRepo, attemptRepo, profileRepo)
	appLogger.Info("Services initialized")

	// Initialize handlers
	validator := validation.NewValidator()
	handlers := handler.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": db.PingContext,
			"redis":    cacheAdapter.Ping,
		}),
		Reference: handler.NewReferenceHandler(referenceService, validator),
		Question:  handler.NewQuestionHandler(questionService, importService, exportService, validator, cfg.Import),
		Test:      handler.NewTestHandler(testService, attemptService, validator),
		Attempt:   handler.NewAttemptHandler(catalogueService, attemptService, validator),
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitIdle)
	go limiter.Run(ctx, rateLimitInterval)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	handler.RegisterRoutes(app, handlers, authService, limiter.Handler(), middleware.NewValidationMiddleware(validator))

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
