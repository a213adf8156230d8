package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m04kA/SMC-LessonBookingService/internal/api"
	"github.com/m04kA/SMC-LessonBookingService/internal/config"
	availabilityRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/database"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-LessonBookingService/internal/integrations/profileservice"
	availabilityService "github.com/m04kA/SMC-LessonBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-LessonBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/get_available_slots"
	payBookingUC "github.com/m04kA/SMC-LessonBookingService/internal/usecase/pay_booking"
	"github.com/m04kA/SMC-LessonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-LessonBookingService/pkg/keylock"
	"github.com/m04kA/SMC-LessonBookingService/pkg/logger"
	"github.com/m04kA/SMC-LessonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-LessonBookingService/pkg/mq"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-LessonBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("LESSONS_CONFIG"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-LessonBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Параметры бронирования (уже провалидированы в config.Load)
	location, _ := cfg.Booking.Location()
	paymentWindow, _ := cfg.Booking.PaymentWindowDuration()
	tolerance, _ := cfg.Booking.DisplayToleranceDuration()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	dbOpts, err := cfg.Database.Options()
	if err != nil {
		log.Fatal("Invalid database config: %v", err)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	db, err := database.Open(startupCtx, dbOpts)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (driver=%s)", dbOpts.Dialect)

	// Миграции
	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(db, dbOpts.Dialect)
		if err != nil {
			log.Fatal("Failed to create migrator: %v", err)
		}
		applied, err := migrator.Up(startupCtx)
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied: %d", applied)
	}

	// С выключенными метриками обертка работает как прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	sb := sqlbuilder.New(dbOpts.Dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB, dbOpts.Dialect)
	locker := keylock.New()

	// Инициализируем интеграционных клиентов
	var profileClient createBookingUC.ProfileServiceClient = profileservice.Static{}
	if cfg.ProfileService.URL != "" {
		profileClient = profileservice.NewClient(
			cfg.ProfileService.URL,
			time.Duration(cfg.ProfileService.Timeout)*time.Second,
			log,
		)
		log.Info("ProfileService client initialized (url=%s, timeout=%ds)",
			cfg.ProfileService.URL, cfg.ProfileService.Timeout)
	} else {
		log.Warn("ProfileService url is empty, default hourly rate %d is used for every teacher",
			cfg.Booking.DefaultHourlyRate)
	}

	var publisher notifier.Publisher
	if cfg.Notifications.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.Notifications.RabbitURL, cfg.Notifications.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
		log.Info("Booking events are published to exchange %s", cfg.Notifications.Exchange)
	}
	bookingNotifier := notifier.New(publisher, metricsCollector, log)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB, sb)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB, sb)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		txMgr,
		locker,
		&availabilityService.RealTimeProvider{},
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		locker,
		bookingNotifier,
		&bookingsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		profileClient,
		pricing.NewCalculator(cfg.Booking.DefaultHourlyRate),
		txMgr,
		locker,
		bookingNotifier,
		log,
	)
	payBookingUseCase := payBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		locker,
		bookingNotifier,
		paymentWindow,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilitySvc,
		slots.NewFilter(cfg.Booking.Policy(), tolerance),
		getAvailableSlotsUC.Options{
			Location:    location,
			HorizonDays: cfg.Booking.HorizonDays,
			Tolerance:   tolerance,
		},
		log,
	)
	log.Info("Booking rules: timezone=%s, horizon=%dd, payment_window=%s, tolerance=%s, policy=%s",
		location, cfg.Booking.HorizonDays, paymentWindow, tolerance, cfg.Booking.Policy())

	// Настраиваем роутер
	deps := api.Dependencies{
		CreateBooking:     createBookingUseCase,
		PayBooking:        payBookingUseCase,
		GetAvailableSlots: getAvailableSlotsUseCase,
		Bookings:          bookingSvc,
		Availability:      availabilitySvc,
		Logger:            log,
	}
	if metricsCollector != nil {
		deps.Metrics = metricsCollector
		deps.MetricsPath = cfg.Metrics.Path
		deps.MetricsHTTP = metricsCollector.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r := api.NewRouter(deps)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
