package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/autorenta/api/internal/delivery/http"
	"github.com/autorenta/api/internal/pkg/config"
	"github.com/autorenta/api/internal/pkg/database"
	"github.com/autorenta/api/internal/pkg/jwt"
	"github.com/autorenta/api/internal/pkg/logger"
	"github.com/autorenta/api/internal/pkg/pdf"
	"github.com/autorenta/api/internal/pkg/redis"
	"github.com/autorenta/api/internal/repository/cached"
	"github.com/autorenta/api/internal/repository/postgres"
	"github.com/autorenta/api/internal/scheduler"
	"github.com/autorenta/api/internal/usecase/auth"
	"github.com/autorenta/api/internal/usecase/reservation"
	"github.com/autorenta/api/internal/usecase/user"
	"github.com/autorenta/api/internal/usecase/vehicle"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting AutoRenta API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Подключение к Redis
	// =========================================================================

	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer cache.Close()

	log.Info("Connected to Redis", map[string]interface{}{
		"address": cfg.Redis.Address(),
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	vehicleRepo := cached.NewVehicleRepository(postgres.NewVehicleRepository(db), cache)
	reservationRepo := postgres.NewReservationRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание JWT token service и генератора договоров
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	contracts := pdf.NewContractGenerator(pdf.CompanyInfo{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
	})

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, log)
	userService := user.NewService(userRepo, reservationRepo, log)
	vehicleService := vehicle.NewService(vehicleRepo, categoryRepo, reservationRepo, log)
	reservationService := reservation.NewService(reservationRepo, vehicleRepo, paymentRepo, contracts, cache, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Запуск планировщика фоновых задач
	// =========================================================================

	sched := scheduler.NewScheduler(cfg.Scheduler, refreshTokenRepo, reservationService, log)
	sched.Start()
	defer sched.Stop()

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	vehicleHandler := deliveryHTTP.NewVehicleHandler(vehicleService, log)
	reservationHandler := deliveryHTTP.NewReservationHandler(reservationService, log)
	userHandler := deliveryHTTP.NewUserHandler(userService, log)

	router := deliveryHTTP.NewRouter(
		authHandler,
		vehicleHandler,
		reservationHandler,
		userHandler,
		tokenService,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
