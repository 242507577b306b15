package mealdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/athebyme/recipe-catalog/internal/adapters/logger"
	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/athebyme/recipe-catalog/internal/domain/ports"
	"github.com/athebyme/recipe-catalog/internal/utils"
	"github.com/athebyme/recipe-catalog/pkg/interfaces"
)

const (
	// DefaultBaseURL публичный API TheMealDB
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1/"
	// DefaultTimeout таймаут одного запроса
	DefaultTimeout = 10 * time.Second

	categoriesPath = "categories.php"
	maxBodySize    = 4 << 20
)

// FetchObserver получает результат каждого запроса (метрики)
type FetchObserver interface {
	ObserveFetch(status string, duration time.Duration)
}

// Client реализует CategorySourcePort поверх HTTP API TheMealDB
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     interfaces.LoggerPort
	observer   FetchObserver
}

var _ ports.CategorySourcePort = (*Client)(nil)

// Option настраивает Client
type Option func(*Client)

// WithBaseURL задает базовый адрес API
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient задает HTTP клиент (например, из httptest.Server)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout задает таймаут запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger задает логгер
func WithLogger(log interfaces.LoggerPort) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithMetrics задает получателя метрик
func WithMetrics(observer FetchObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient создает клиент TheMealDB
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}

	if strings.TrimSpace(c.baseURL) == "" {
		return nil, utils.ErrEmptyBaseURL
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}

	return c, nil
}

// BaseURL возвращает нормализованный базовый адрес
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchCategories выполняет GET categories.php и разбирает ответ
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	start := time.Now()

	categories, err := c.fetch(ctx)
	duration := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveFetch(fetchStatus(ctx, err), duration)
	}

	if err != nil {
		c.logger.WarnWithContext(ctx, "Ошибка запроса категорий",
			interfaces.LogField{Key: "error", Value: err.Error()},
			interfaces.LogField{Key: "duration", Value: duration.String()},
		)
		return nil, err
	}

	c.logger.DebugWithContext(ctx, "Категории получены",
		interfaces.LogField{Key: "count", Value: len(categories)},
		interfaces.LogField{Key: "duration", Value: duration.String()},
	)
	return categories, nil
}

// Значения метки status метрики запросов
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
)

// fetchStatus отделяет отмену вызывающим от таймаута самого запроса:
// таймаут http.Client тоже совпадает с context.DeadlineExceeded
func fetchStatus(ctx context.Context, err error) string {
	if err == nil {
		return StatusSuccess
	}
	if ctx.Err() != nil {
		return StatusCanceled
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return StatusTimeout
	}
	return StatusError
}

func (c *Client) fetch(ctx context.Context) ([]models.Category, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+categoriesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// тело читаем, чтобы соединение вернулось в пул
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("%w: %d %s", utils.ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	categories, err := models.DecodeCategories(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}
