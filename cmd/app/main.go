package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/booking-calendar-service/internal/adapters/in/http"
	"github.com/suchimauz/booking-calendar-service/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/booking-calendar-service/internal/adapters/out/cache"
	"github.com/suchimauz/booking-calendar-service/internal/adapters/out/eventstore"
	appLogger "github.com/suchimauz/booking-calendar-service/internal/adapters/out/logger"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
	"github.com/suchimauz/booking-calendar-service/internal/core/services/calendar_service"
	"github.com/suchimauz/booking-calendar-service/internal/core/services/ruleset_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Таймзона бизнеса резолвится один раз и явно передается дальше
	location, err := cfg.Location()
	if err != nil {
		fmt.Printf("Failed to load timezone %q: %v\n", cfg.App.Timezone, err)
		os.Exit(1)
	}

	// Локально - цветная консоль, иначе структурный JSON
	var mainLogger out.LoggerPort
	if cfg.IsLocal() {
		mainLogger = appLogger.NewConsoleLogger(location)
	} else {
		zapLogger, err := appLogger.NewZapLogger(cfg.App.Version)
		if err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		mainLogger = zapLogger
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	storeAdapter := eventstore.NewEventStoreAdapter(cfg, logger.WithModule("EventStoreAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, logger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервисов
	ruleSetService := ruleset_service.NewRuleSetService(
		domain.NewWorkingHoursRuleSet(),
		logger,
		location,
	)
	calendarService := calendar_service.NewCalendarService(
		storeAdapter,
		cacheAdapter,
		ruleSetService,
		logger,
		location,
		cfg,
	)

	// Настройка HTTP сервера
	router := gin.Default()
	calendarController := http.NewCalendarController(calendarService, cfg, location)
	calendarController.RegisterRoutes(router)
	ruleSetController := http.NewRuleSetController(ruleSetService, cfg, location)
	ruleSetController.RegisterRoutes(router)

	// Слушатель изменений событий только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewEventListener(
			calendarService,
			cfg,
			logger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
