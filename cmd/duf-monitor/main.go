package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Application
	appcollector "github.com/dreschagin/duf-monitor/internal/application/collector"
	"github.com/dreschagin/duf-monitor/internal/application/port"
	"github.com/dreschagin/duf-monitor/internal/application/usecase"

	// Domain
	"github.com/dreschagin/duf-monitor/internal/domain/service"

	// Infrastructure
	"github.com/dreschagin/duf-monitor/internal/infrastructure/cache/redis"
	"github.com/dreschagin/duf-monitor/internal/infrastructure/collector"
	"github.com/dreschagin/duf-monitor/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/duf-monitor/internal/infrastructure/notification/webhook"
	wsInfra "github.com/dreschagin/duf-monitor/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/duf-monitor/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/duf-monitor/internal/infrastructure/persistence/postgres"

	// Interfaces
	httpInterface "github.com/dreschagin/duf-monitor/internal/interfaces/http"
	"github.com/dreschagin/duf-monitor/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/duf-monitor/pkg/config"
	"github.com/dreschagin/duf-monitor/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Disk Usage Monitor")

	// 3. Подключаемся к БД
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		log.Error("Failed to ping database", err)
		os.Exit(1)
	}
	log.Info("Database connected successfully")

	// Создаем схему, если ее еще нет
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		log.Error("Failed to ensure database schema", err)
		os.Exit(1)
	}

	// 4. Dependency Injection - Infrastructure Layer

	// Repositories
	snapshotRepository := postgres.NewPostgresSnapshotRepository(db)
	alertRepository := postgres.NewPostgresAlertRepository(db)

	// Disk source
	var diskSource port.DiskSource
	switch cfg.Source.Kind {
	case "duf":
		diskSource = collector.NewDufSource(cfg.Source.DufBinary, cfg.Source.DufTimeout)
		log.Info("Using duf disk source", "binary", cfg.Source.DufBinary)
	default:
		diskSource = collector.NewGopsutilSource()
		log.Info("Using gopsutil disk source")
	}

	// WebSocket Hub
	hub := wsInfra.NewHub(log)

	// Optional Redis cache for history queries
	var historyCache port.Cache
	if cfg.Redis.Enabled {
		redisCache, err := redis.NewRedisCache(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
			cfg.Redis.PoolSize,
			cfg.Redis.MinIdleConns,
			cfg.Redis.DialTimeout,
			cfg.Redis.ReadTimeout,
			cfg.Redis.WriteTimeout,
		)
		if err != nil {
			log.Error("Failed to connect to Redis", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		historyCache = redisCache
		log.Info("Redis cache enabled", "host", cfg.Redis.Host, "ttl", cfg.Redis.TTL.String())
	}

	// Optional NATS publisher for alert lifecycle events
	var eventPublisher port.EventPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err := nats.NewNATSPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Error("Failed to connect to NATS", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		eventPublisher = natsPublisher
	}

	// Optional CloudWatch metrics export
	var metricsPublisher port.MetricsPublisher
	var cwPublisher *cloudwatch.MetricsPublisher
	if cfg.CloudWatch.MetricsEnabled {
		cwPublisher, err = cloudwatch.NewMetricsPublisher(context.Background(), cloudwatch.MetricsPublisherConfig{
			Namespace:         cfg.CloudWatch.MetricsNamespace,
			Region:            cfg.CloudWatch.Region,
			Endpoint:          cfg.CloudWatch.Endpoint,
			AccessKeyID:       cfg.CloudWatch.AccessKeyID,
			SecretAccessKey:   cfg.CloudWatch.SecretAccessKey,
			BufferSize:        cfg.CloudWatch.MetricsBufferSize,
			FlushInterval:     cfg.CloudWatch.MetricsFlushInterval,
			StorageResolution: cfg.CloudWatch.MetricsStorageResolution,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch metrics publisher", err)
			os.Exit(1)
		}
		metricsPublisher = cwPublisher
		log.Info("CloudWatch metrics enabled", "namespace", cfg.CloudWatch.MetricsNamespace)
	}

	// Optional webhook for alert notifications
	var alertNotifier port.AlertNotifier
	if cfg.Webhook.URL != "" {
		alertNotifier = webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout, cfg.Webhook.MaxAttempts, log)
		log.Info("Webhook notifications enabled")
	}

	// 5. Dependency Injection - Domain Layer

	alertEvaluator := service.NewAlertEvaluator()
	snapshotValidator := service.NewSnapshotValidator()

	// Восстанавливаем состояние движка алертов по открытым алертам
	openAlerts, err := alertRepository.FindOpen(context.Background())
	if err != nil {
		log.Error("Failed to load open alerts", err)
		os.Exit(1)
	}
	alertEvaluator.Restore(openAlerts)
	log.Info("Alert state restored", "open_alerts", alertEvaluator.OpenCount())

	// 6. Dependency Injection - Application Layer (Use Cases)

	collectSnapshotUC := usecase.NewCollectSnapshotUseCase(
		diskSource,
		snapshotRepository,
		alertRepository,
		alertEvaluator,
		snapshotValidator,
		hub,
		alertNotifier,
		eventPublisher,
		metricsPublisher,
		cfg.Monitor.AlertThreshold,
		log,
	)

	getCurrentUsageUC := usecase.NewGetCurrentUsageUseCase(snapshotRepository, log)

	getUsageHistoryUC := usecase.NewGetUsageHistoryUseCase(
		snapshotRepository,
		historyCache,
		cfg.Monitor.HistoryMaxHours,
		log,
	)

	listAlertsUC := usecase.NewListAlertsUseCase(
		alertRepository,
		cfg.Monitor.AlertsListLimit,
		cfg.Monitor.AlertsListMaxCap,
		log,
	)

	acknowledgeAlertUC := usecase.NewAcknowledgeAlertUseCase(alertRepository, log)

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)

	dashboardPage, err := httpInterface.DashboardPage()
	if err != nil {
		log.Error("Failed to load embedded dashboard page", err)
		os.Exit(1)
	}

	dashboardHandler := handler.NewDashboardHandler(dashboardPage, log)
	websocketHandler := handler.NewWebSocketHandler(hub, getCurrentUsageUC, cfg.Server.AllowedOrigins, log)
	usageAPIHandler := handler.NewUsageAPIHandler(getCurrentUsageUC, getUsageHistoryUC, log)
	alertsAPIHandler := handler.NewAlertsAPIHandler(listAlertsUC, acknowledgeAlertUC, log)

	// Router
	router := httpInterface.NewRouter(
		dashboardHandler,
		websocketHandler,
		usageAPIHandler,
		alertsAPIHandler,
		cfg.Server,
		log,
	)

	// 8. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем WebSocket hub
	go hub.Run()

	// Запускаем цикл сбора
	runner := appcollector.NewRunner(
		collectSnapshotUC,
		snapshotRepository,
		cfg.Monitor.PollInterval,
		cfg.Monitor.RetentionMaxAge,
		cfg.Monitor.RetentionEvery,
		log,
	)
	go runner.Run(ctx)

	// 9. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Dashboard available at http://localhost:" + cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем цикл сбора
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	// Отключаем WebSocket клиентов и сбрасываем буферы метрик
	hub.Stop()

	if cwPublisher != nil {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := cwPublisher.Close(flushCtx); err != nil {
			log.Error("Failed to flush CloudWatch metrics", err)
		}
		flushCancel()
	}

	log.Info("Server stopped gracefully")
}
