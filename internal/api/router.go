package api

import (
	"net/http"
	"time"

	"github.com/athebyme/recipe-catalog/internal/adapters/metrics"
	_ "github.com/athebyme/recipe-catalog/internal/api/docs"
	"github.com/athebyme/recipe-catalog/internal/api/handlers"
	"github.com/athebyme/recipe-catalog/internal/api/middleware"
	"github.com/athebyme/recipe-catalog/internal/domain/services"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig параметры маршрутизатора
type RouterConfig struct {
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	MetricsEndpoint  string // пустая строка отключает /metrics
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(
	controller services.CategoryControllerInterface,
	logger interfaces.LoggerPort,
	m *metrics.Metrics,
	cfg RouterConfig,
) *chi.Mux {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))
	r.Use(middleware.Tracing)
	r.Use(middleware.SecurityHeaders)

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if m != nil && cfg.MetricsEndpoint != "" {
		r.Method(http.MethodGet, cfg.MetricsEndpoint, m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimiterMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

		categoryHandler := handlers.NewCategoryHandler(controller, logger)

		r.Route("/categories", func(r chi.Router) {
			// Текущее состояние списка категорий
			r.Get("/", categoryHandler.ListCategories)

			// Переход к карточке категории
			r.Get("/{name}", categoryHandler.GetCategory)
		})
	})

	return r
}
