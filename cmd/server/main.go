package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"CapybaraPetService/config"
	"CapybaraPetService/internal/auth"
	"CapybaraPetService/internal/clients/openweather"
	"CapybaraPetService/internal/database/seed"
	"CapybaraPetService/internal/delivery/rest"
	"CapybaraPetService/internal/mailer"
	"CapybaraPetService/internal/repository/postgres"
	"CapybaraPetService/internal/repository/redis"
	"CapybaraPetService/internal/scheduler"
	"CapybaraPetService/internal/service"
	"CapybaraPetService/pkg/database"
	"CapybaraPetService/pkg/logger"
	"CapybaraPetService/pkg/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Учетные данные служебного токена планировщика
const (
	schedulerUserID = "sched"
	schedulerEmail  = "scheduler@capybara.local"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	log.Info("Запуск сервиса питомцев",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.AppEnv))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Создаем механизм graceful shutdown
	gracefulShutdown := server.NewGracefulShutdown(log, cfg.HTTP.ShutdownTimeout)

	// Подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("Не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	log.Info("Подключение к PostgreSQL установлено")

	gracefulShutdown.AddShutdownFunc("postgres", func(ctx context.Context) error {
		return database.Close(db)
	})

	if err := database.Migrate(db); err != nil {
		log.Fatal("Не удалось выполнить миграции", zap.Error(err))
	}

	if err := seed.NewSeeder(db, log).SeedAll(ctx, cfg.AppEnv); err != nil {
		log.Fatal("Не удалось заполнить справочники", zap.Error(err))
	}

	// Подключение к Redis
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Не удалось подключиться к Redis", zap.Error(err))
	}
	log.Info("Подключение к Redis установлено")

	gracefulShutdown.AddShutdownFunc("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	// Создаем проверку здоровья баз данных
	resilienceCfg := config.DefaultResilienceConfig()
	healthChecker := database.NewDatabaseHealthChecker(db, redisClient, resilienceCfg, log)

	// Инициализация отказоустойчивых репозиториев
	userRepo := postgres.NewResilientUserRepository(postgres.NewUserRepository(db), healthChecker)
	cacheRepo := redis.NewResilientCacheRepository(redis.NewCacheRepository(redisClient), healthChecker, log)
	petRepo := postgres.NewPetRepository(db)
	weatherRepo := postgres.NewWeatherRepository(db)
	metricRepo := postgres.NewMetricRepository(db)
	resetRepo := postgres.NewPasswordResetRepository(db)

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.LoginTTL, cfg.Auth.ServiceTTL)

	sender, err := mailer.New(ctx, cfg.Mail, log)
	if err != nil {
		log.Fatal("Не удалось инициализировать отправку писем", zap.Error(err))
	}
	gracefulShutdown.AddShutdownFunc("mailer", func(ctx context.Context) error {
		return sender.Close()
	})

	// Инициализация сервисов
	location := cfg.Location()
	services := rest.Services{
		Users:   service.NewUserService(userRepo, cacheRepo, tokens, log),
		Pets:    service.NewPetService(petRepo, weatherRepo, metricRepo, log),
		Weather: service.NewWeatherService(openweather.NewClient(cfg.Weather), weatherRepo, cacheRepo, cfg.Weather, resilienceCfg, log),
		Series:  service.NewSeriesService(metricRepo, location, log),
		Daily:   service.NewDailyService(metricRepo, userRepo, location, log),
		Resets:  service.NewPasswordResetService(resetRepo, userRepo, cacheRepo, sender, resilienceCfg.External.CallTimeout, log),
	}

	healthCheck := server.NewHealthCheck(healthChecker, log, cfg.Version, 0)
	healthCheck.Start(ctx)

	router := rest.NewRouter(rest.NewHandler(services, log), tokens, healthCheck, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	gracefulShutdown.AddShutdownFunc("http", func(ctx context.Context) error {
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("Запуск HTTP сервера", zap.Int("port", cfg.HTTP.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Не удалось запустить HTTP сервер", zap.Error(err))
		}
	}()

	// Запускаем сервер для метрик Prometheus
	metricsServer := server.MetricsServer(cfg.HTTP.MetricsPort, log)
	gracefulShutdown.AddShutdownFunc("metrics", func(ctx context.Context) error {
		return metricsServer.Shutdown(ctx)
	})

	// Плановое обновление погоды идет через собственный HTTP API
	if cfg.Scheduler.Enabled {
		token := cfg.Scheduler.Token
		if token == "" {
			token, err = tokens.IssueServiceToken(schedulerUserID, schedulerEmail)
			if err != nil {
				log.Fatal("Не удалось выпустить токен планировщика", zap.Error(err))
			}
		}

		refresher := scheduler.NewWeatherRefresher(cfg.Scheduler, token, log)
		sched, err := scheduler.New(cfg.Scheduler.Spec, refresher, log)
		if err != nil {
			log.Fatal("Некорректное расписание планировщика", zap.Error(err), zap.String("spec", cfg.Scheduler.Spec))
		}
		sched.Start()

		gracefulShutdown.AddShutdownFunc("scheduler", sched.Stop)
	}

	hostname, _ := os.Hostname()
	log.Info("Сервис успешно запущен",
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Int("metrics_port", cfg.HTTP.MetricsPort),
		zap.String("version", cfg.Version),
		zap.Int("pid", os.Getpid()),
		zap.String("hostname", hostname))

	// Ожидаем сигнала остановки
	gracefulShutdown.Wait(ctx)
	cancel()
	log.Info("Завершение работы сервиса выполнено")
}
