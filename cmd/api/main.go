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

	"github.com/athebyme/recipe-catalog/config"
	"github.com/athebyme/recipe-catalog/internal/adapters/logger"
	"github.com/athebyme/recipe-catalog/internal/adapters/mealdb"
	"github.com/athebyme/recipe-catalog/internal/adapters/metrics"
	"github.com/athebyme/recipe-catalog/internal/api"
	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/services"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	var m *metrics.Metrics
	clientOpts := []mealdb.Option{
		mealdb.WithBaseURL(cfg.MealDB.BaseURL),
		mealdb.WithTimeout(cfg.MealDB.Timeout),
		mealdb.WithLogger(log),
	}
	if cfg.Metrics.Enabled {
		m = metrics.New()
		clientOpts = append(clientOpts, mealdb.WithMetrics(m))
	}

	client, err := mealdb.NewClient(clientOpts...)
	if err != nil {
		log.Fatal("Ошибка инициализации клиента TheMealDB", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	log.Info("Клиент TheMealDB инициализирован", interfaces.LogField{Key: "base_url", Value: client.BaseURL()})

	controller := services.NewCategoryController(client, log)
	if m != nil {
		controller.OnStateChange(func(state models.ViewState) {
			m.SetPhase(state.Phase())
		})
	}
	if err := controller.Start(ctx); err != nil {
		log.Fatal("Ошибка запуска загрузки категорий", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer controller.Dispose()

	endpoint := ""
	if cfg.Metrics.Enabled {
		endpoint = cfg.Metrics.Endpoint
	}
	router := api.SetupRouter(controller, log, m, api.RouterConfig{
		CORSAllowOrigins: cfg.Security.CORSAllowOrigins,
		RequestTimeout:   cfg.Server.RequestTimeout,
		RateLimitRPS:     cfg.RateLimit.RPS,
		RateLimitBurst:   cfg.RateLimit.Burst,
		MetricsEndpoint:  endpoint,
	})
	log.Info("Маршрутизатор настроен")

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка при graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		controller.Dispose()

		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}
