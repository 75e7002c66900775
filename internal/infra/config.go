package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации Complitic.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Advisor   AdvisorConfig   `mapstructure:"advisor"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr — адрес для http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig описывает подключение к PostgreSQL.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// RedisConfig описывает подключение к Redis (Pub/Sub и Cache).
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig содержит пути к RSA ключам и настройки JWT.
type AuthConfig struct {
	PublicKeyPath  string        `mapstructure:"public_key_path"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
	PublicKey      []byte
	PrivateKey     []byte
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// DashboardConfig — кэширование тяжелых аналитических запросов.
type DashboardConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// AdvisorConfig — внешний AI-советник и настройки защиты вызова.
type AdvisorConfig struct {
	URL       string        `mapstructure:"url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // запросов в секунду
	Burst     int           `mapstructure:"burst"`
	Attempts  uint          `mapstructure:"attempts"`

	// Настройки Circuit Breaker
	CBMaxRequests uint32        `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
}

// AuditConfig — буфер журнала действий.
type AuditConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
// Пустой список путей означает поиск в "." и "./configs".
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// 2. ENV перекрывает файл: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Дефолты
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// 6. PEM-ключ из ENV (Docker/K8s) либо из файла по пути из конфига
	cfg.Auth.PublicKey = loadKeyResource(cfg.Auth.PublicKeyPath, "AUTH_PUBLIC_KEY_DATA")
	cfg.Auth.PrivateKey = loadKeyResource(cfg.Auth.PrivateKeyPath, "AUTH_PRIVATE_KEY_DATA")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 15)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.public_key_path", "")
	v.SetDefault("auth.private_key_path", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.issuer", "complitic-console")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("dashboard.cache_ttl", time.Minute)
	v.SetDefault("advisor.url", "")
	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.timeout", 20*time.Second)
	v.SetDefault("advisor.rate_limit", 5)
	v.SetDefault("advisor.burst", 5)
	v.SetDefault("advisor.attempts", 3)
	v.SetDefault("advisor.cb_max_requests", 3)
	v.SetDefault("advisor.cb_interval", 5*time.Second)
	v.SetDefault("advisor.cb_timeout", 30*time.Second)
	v.SetDefault("audit.buffer_size", 10000)
	v.SetDefault("audit.batch_size", 100)
	v.SetDefault("audit.flush_interval", 500*time.Millisecond)
	v.SetDefault("metrics.addr", ":9090")
}

// loadKeyResource: сначала ENV с содержимым ключа, затем файл.
func loadKeyResource(path string, envDataKey string) []byte {
	if data := os.Getenv(envDataKey); data != "" {
		return []byte(data)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data
		}
	}
	return nil
}
