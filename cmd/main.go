package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"fortivault/config"
	"fortivault/controller"
	_ "fortivault/docs" // swagger docs
	"fortivault/handler"
	"fortivault/migrations"
	"fortivault/otptoken"
	"fortivault/pkg/logger"
	"fortivault/ratelimit"
	"fortivault/repository"
	"fortivault/service"
	"fortivault/validator"
	"fortivault/web3forms"
)

// @title Fortivault Intake Service API
// @version 1.0
// @description Lead-intake backend for the Fortivault fraud-recovery consultancy: fraud-report submissions, contact enquiries, and email verification.
// @contact.name API Support
// @contact.email support@fortivault.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter JWT Bearer token in format: Bearer {token}
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Mode)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Infow("Starting Fortivault intake service",
		"version", "1.0.0",
		"environment", cfg.Application.Environment,
		"port", cfg.HTTPServer.Port,
	)

	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	log.Infow("Database connected",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	if err := migrations.RunMigrations(db.DB, "./migrations"); err != nil {
		log.Fatalw("Failed to run database migrations", "error", err)
	}

	// Rate-limit stores: in-memory fixed window by default, Redis when shared
	// state across replicas is needed
	reportLimiter, contactLimiter, otpLimiter, closeRedis, err := buildLimiters(cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize rate limiting", "error", err)
	}
	defer closeRedis()

	tokens, err := otptoken.NewManager(cfg.OTP.Secret)
	if err != nil {
		log.Fatalw("Failed to initialize OTP token manager", "error", err)
	}

	v := validator.New()

	caseRepo := repository.NewCaseRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	relay := web3forms.NewClient(cfg.Web3Forms.AccessKey, cfg.Web3Forms.Endpoint, cfg.Web3Forms.Timeout)
	emailService := service.NewEmailService(cfg, log)

	reportService := service.NewReportService(relay, caseRepo, emailService, reportLimiter, cfg, log)
	contactService := service.NewContactService(relay, contactLimiter, cfg, log)
	otpService := service.NewOTPService(tokens, otpLimiter, emailService, caseRepo, cfg, log)
	adminService := service.NewAdminService(adminRepo, cfg, log)

	reportController := controller.NewReportController(reportService, v, log)
	contactController := controller.NewContactController(contactService, v, log)
	otpController := controller.NewOTPController(otpService, v, cfg, log)
	adminController := controller.NewAdminController(adminService, v, log)
	healthController := controller.NewHealthController()

	e := echo.New()
	e.HideBanner = true

	handler.RegisterRoutes(e, reportController, contactController, otpController,
		adminController, healthController, adminService, cfg, log)

	serverAddr := fmt.Sprintf(":%d", cfg.HTTPServer.Port)
	go func() {
		log.Infow("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalw("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Application.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Failed to shutdown server gracefully", "error", err)
		os.Exit(1)
	}

	log.Infow("Server shutdown completed")
}

func connectDB(cfg *config.Config) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var db *sqlx.DB
	var err error

	// Retry while the database container comes up
	for i := 0; i < 30; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			if err = db.Ping(); err == nil {
				break
			}
			db.Close()
		}
		time.Sleep(1 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func buildLimiters(cfg *config.Config, log *logger.Logger) (report, contact, otp ratelimit.Store, closeFn func(), err error) {
	if !cfg.Redis.Enabled {
		stores := []*ratelimit.MemoryStore{
			ratelimit.NewMemoryStore(),
			ratelimit.NewMemoryStore(),
			ratelimit.NewMemoryStore(),
		}

		// Drop identifiers whose window ended long ago so idle keys do not
		// accumulate for the lifetime of the process
		stop := make(chan struct{})
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					for _, s := range stores {
						s.Prune(time.Hour)
					}
				case <-stop:
					return
				}
			}
		}()

		return stores[0], stores[1], stores[2], func() { close(stop) }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Redis rate limiting enabled", "host", cfg.Redis.Host, "port", cfg.Redis.Port)

	return ratelimit.NewRedisStore(client, "report", log),
		ratelimit.NewRedisStore(client, "contact", log),
		ratelimit.NewRedisStore(client, "otp", log),
		func() { client.Close() },
		nil
}
