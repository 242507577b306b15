package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		RequestTimeout  time.Duration // таймаут обработки одного запроса
	}

	MealDB struct {
		BaseURL string
		Timeout time.Duration
	}

	Metrics struct {
		Enabled  bool
		Endpoint string
	}

	Security struct {
		CORSAllowOrigins []string
	}

	RateLimit struct {
		RPS   float64 // запросов в секунду на клиента
		Burst int
	}

	TUI struct {
		LogFile string // логи терминального клиента, stdout занят интерфейсом
	}
}

// Load загружает конфигурацию из .env, файла и переменных окружения
func Load(configPath string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Продолжаем, если файл не найден, будем использовать только переменные окружения
	}

	setDefaults(v)
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	if cfg.ENV == "" {
		cfg.ENV = "development"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения, без которых сервис не запустится
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("некорректный порт сервера: %d", c.Server.Port)
	}
	if strings.TrimSpace(c.MealDB.BaseURL) == "" {
		return errors.New("не задан адрес TheMealDB (mealdb.baseURL)")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("параметры rate limit не могут быть отрицательными")
	}
	return nil
}

// Addr возвращает адрес для http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction сообщает, запущен ли сервис в production
func (c *Config) IsProduction() bool {
	return c.ENV == "production"
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Основные настройки
	v.SetDefault("appName", "recipe-catalog")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("logLevel", "info")
	v.SetDefault("env", "development")

	// Настройки сервера
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.shutdownTimeout", "5s")
	v.SetDefault("server.requestTimeout", "30s")

	// Настройки TheMealDB
	v.SetDefault("mealdb.baseURL", "https://www.themealdb.com/api/json/v1/1/")
	v.SetDefault("mealdb.timeout", "10s")

	// Настройки метрик
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.endpoint", "/metrics")

	// Настройки безопасности
	v.SetDefault("security.corsAllowOrigins", []string{"*"})

	// Ограничение частоты запросов
	v.SetDefault("rateLimit.rps", 20)
	v.SetDefault("rateLimit.burst", 40)

	// Терминальный клиент
	v.SetDefault("tui.logFile", "recipes.log")
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables(v *viper.Viper) {
	// Основные настройки
	v.BindEnv("appName", "APP_NAME")
	v.BindEnv("version", "APP_VERSION")
	v.BindEnv("logLevel", "LOG_LEVEL")
	v.BindEnv("env", "APP_ENV")

	// Настройки сервера
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	v.BindEnv("server.requestTimeout", "SERVER_REQUEST_TIMEOUT")

	// Настройки TheMealDB
	v.BindEnv("mealdb.baseURL", "MEALDB_BASE_URL")
	v.BindEnv("mealdb.timeout", "MEALDB_TIMEOUT")

	// Настройки метрик
	v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	v.BindEnv("metrics.endpoint", "METRICS_ENDPOINT")

	// Настройки безопасности
	v.BindEnv("security.corsAllowOrigins", "CORS_ALLOW_ORIGINS")

	// Ограничение частоты запросов
	v.BindEnv("rateLimit.rps", "RATE_LIMIT_RPS")
	v.BindEnv("rateLimit.burst", "RATE_LIMIT_BURST")

	// Терминальный клиент
	v.BindEnv("tui.logFile", "TUI_LOG_FILE")
}
