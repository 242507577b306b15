package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics хранит коллекторы Prometheus сервиса
type Metrics struct {
	registry *prometheus.Registry

	httpDurations   *prometheus.HistogramVec
	requestsCounter *prometheus.CounterVec
	activeRequests  prometheus.Gauge

	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	statePhase    *prometheus.GaugeVec
}

// New создает набор метрик в собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_durations_seconds",
			Help:    "Длительность HTTP запросов",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),

		requestsCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Общее количество HTTP запросов",
		}, []string{"path", "method", "status"}),

		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Количество активных HTTP запросов",
		}),

		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_fetch_total",
			Help: "Количество запросов категорий к TheMealDB",
		}, []string{"status"}),

		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recipe_fetch_duration_seconds",
			Help:    "Длительность запроса категорий к TheMealDB",
			Buckets: prometheus.DefBuckets,
		}),

		statePhase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "recipe_view_state",
			Help: "Текущая фаза состояния представления (1 для активной фазы)",
		}, []string{"phase"}),
	}

	m.registry.MustRegister(
		m.httpDurations,
		m.requestsCounter,
		m.activeRequests,
		m.fetchTotal,
		m.fetchDuration,
		m.statePhase,
		collectors.NewGoCollector(),
	)

	return m
}

// Registry возвращает реестр для тестов и внешних экспортеров
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted увеличивает счетчик активных запросов
func (m *Metrics) RequestStarted() {
	m.activeRequests.Inc()
}

// ObserveRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveRequest(path, method string, status int, duration time.Duration) {
	m.activeRequests.Dec()
	code := strconv.Itoa(status)
	m.httpDurations.WithLabelValues(path, method, code).Observe(duration.Seconds())
	m.requestsCounter.WithLabelValues(path, method, code).Inc()
}

// ObserveFetch фиксирует результат запроса категорий
func (m *Metrics) ObserveFetch(status string, duration time.Duration) {
	m.fetchTotal.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(duration.Seconds())
}

// SetPhase отмечает активную фазу состояния представления
func (m *Metrics) SetPhase(active models.Phase) {
	for _, phase := range []models.Phase{models.PhaseLoading, models.PhaseReady, models.PhaseFailed} {
		value := 0.0
		if phase == active {
			value = 1
		}
		m.statePhase.WithLabelValues(string(phase)).Set(value)
	}
}
