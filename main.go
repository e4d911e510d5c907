// Package main provides the main entry point for the SimDesk back-office system
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oroshi-mobile/simdesk/app/handlers"
	"github.com/oroshi-mobile/simdesk/app/middleware"
	"github.com/oroshi-mobile/simdesk/app/router"
	"github.com/oroshi-mobile/simdesk/app/services"
	businessflow "github.com/oroshi-mobile/simdesk/business_flow"
	"github.com/oroshi-mobile/simdesk/config"
	_ "github.com/oroshi-mobile/simdesk/docs"
	"github.com/oroshi-mobile/simdesk/models"
	"github.com/oroshi-mobile/simdesk/repository"
	"github.com/oroshi-mobile/simdesk/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting SimDesk application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Route the standard logger through rotating files when configured
	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Setup graceful shutdown
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging directs the standard logger to a size-rotated file, stdout, or both
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	default:
		log.SetOutput(rotated)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// migrateSchema keeps the schema in sync with the model definitions
func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Contractor{},
		&models.Application{},
		&models.Tag{},
		&models.Line{},
		&models.AuditLog{},
	)
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startIntakeGaugeSampler publishes the live intake session count to Prometheus
// on a fixed interval. The returned cancel function stops the sampler.
func startIntakeGaugeSampler(parent context.Context, registry *businessflow.IntakeRegistry, interval time.Duration) func() {
	samplerCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-samplerCtx.Done():
				return
			case <-ticker.C:
				middleware.IntakeSessionsLive.Set(float64(registry.Len()))
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Seed the first admin account when configured
	if err := ensureSeedAdmin(db, cfg.Admin, cfg.Security.BcryptCost); err != nil {
		return nil, err
	}

	// Initialize repositories
	lineRepo := repository.NewLineRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	tagRepo := repository.NewTagRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(
		services.NewMockSMSProvider(),
		services.NewMockEmailProvider(),
	)

	// Captcha service for admin login
	captchaSvc, err := services.NewCaptchaServiceRotate(cfg.Security.CaptchaTTL, 15, 300)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.MyPageTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Shared batch commit dispatcher for the edit overlays
	dispatcher := businessflow.NewBatchCommitDispatcher(businessflow.DefaultCommitConcurrency)

	// Intake session registry with idle eviction
	intakeRegistry := businessflow.NewIntakeRegistry(cfg.Intake.SessionTTL)
	stopSweeper := intakeRegistry.StartSweeper(context.Background(), cfg.Intake.SweepInterval)
	stopFuncs = append(stopFuncs, stopSweeper)

	if cfg.Metrics.Enabled {
		stopSampler := startIntakeGaugeSampler(context.Background(), intakeRegistry, cfg.Metrics.SampleInterval)
		stopFuncs = append(stopFuncs, stopSampler)
	}

	// Initialize flows
	applicationFlow := businessflow.NewApplicationFlow(
		applicationRepo,
		lineRepo,
		auditRepo,
		tokenService,
		notificationService,
	)

	adminApplicationFlow := businessflow.NewAdminApplicationFlow(
		applicationRepo,
		lineRepo,
		auditRepo,
		notificationService,
		dispatcher,
		db,
	)

	adminLineFlow := businessflow.NewAdminLineFlow(
		lineRepo,
		auditRepo,
		dispatcher,
		intakeRegistry,
		cfg.Intake.SettleDelay,
	)

	tagFlow := businessflow.NewTagFlow(
		tagRepo,
		auditRepo,
		rc,
		&cfg.Cache,
	)

	contractorFlow := businessflow.NewContractorFlow(
		contractorRepo,
		applicationRepo,
		auditRepo,
		db,
	)

	adminAuthFlow := businessflow.NewAdminAuthFlow(
		adminRepo,
		auditRepo,
		tokenService,
		captchaSvc,
	)

	// Initialize handlers
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthFlow)
	lineHandler := handlers.NewAdminLineHandler(adminLineFlow)
	applicationHandler := handlers.NewApplicationHandler(applicationFlow)
	adminAppHandler := handlers.NewAdminApplicationHandler(adminApplicationFlow)
	tagHandler := handlers.NewTagHandler(tagFlow)
	contractorHandler := handlers.NewContractorHandler(contractorFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		adminAuthHandler,
		lineHandler,
		applicationHandler,
		adminAppHandler,
		tagHandler,
		contractorHandler,
		authMiddleware,
	)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureSeedAdmin creates the configured back-office account if it does not exist yet
func ensureSeedAdmin(db *gorm.DB, cfg config.AdminConfig, bcryptCost int) error {
	if cfg.SeedUsername == "" || cfg.SeedPassword == "" {
		return nil
	}

	adminRepo := repository.NewAdminRepository(db)

	existing, err := adminRepo.ByUsername(context.Background(), cfg.SeedUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedPassword), bcryptCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.SeedUsername,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(context.Background(), &admin); err != nil {
		return err
	}

	log.Printf("Seed admin account created: %s", cfg.SeedUsername)
	return nil
}
