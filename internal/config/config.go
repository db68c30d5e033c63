// Package config — настройки сервиса: yaml-файл, переменные TRAFFIC_*, значения по умолчанию.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "TRAFFIC"
	DefaultFileName = "traffic"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	// DialectMemory — без БД, всё в памяти процесса
	DialectMemory = "memory"

	ProviderNone    = "none"
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Session   SessionConfig   `mapstructure:"session"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
}

type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// AssistantConfig — внешний LLM. provider=none — отвечаем заготовками.
type AssistantConfig struct {
	Provider   string        `mapstructure:"provider"`
	GatewayURL string        `mapstructure:"gateway_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type RoutingConfig struct {
	OSRMBaseURL string `mapstructure:"osrm_base_url"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults — значения по умолчанию для всех ключей.
// Без них AutomaticEnv не видит ключи при Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3040")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("db.dialect", DialectSQLite)
	v.SetDefault("db.dsn", "traffic.db")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("assistant.provider", ProviderNone)
	v.SetDefault("assistant.gateway_url", "")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "google/gemini-2.5-flash")
	v.SetDefault("assistant.timeout", 30*time.Second)
	v.SetDefault("routing.osrm_base_url", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("log.level", "info")
}

// New — viper с дефолтами и чтением окружения (TRAFFIC_DB_DSN -> db.dsn)
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile подключает файл конфигурации. Пустой путь — ищем traffic.yaml в текущей папке,
// отсутствие файла в этом случае не ошибка.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(DefaultFileName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load собирает Config и проверяет его
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.Dialect = strings.ToLower(strings.TrimSpace(cfg.DB.Dialect))
	cfg.Assistant.Provider = strings.ToLower(strings.TrimSpace(cfg.Assistant.Provider))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Dialect {
	case DialectSQLite, DialectPostgres, DialectMemory:
	default:
		return fmt.Errorf("config: unknown db.dialect %q", c.DB.Dialect)
	}
	if c.DB.Dialect != DialectMemory && c.DB.DSN == "" {
		return fmt.Errorf("config: db.dsn is required for %s", c.DB.Dialect)
	}
	switch c.Assistant.Provider {
	case ProviderNone, "":
	case ProviderGateway:
		if c.Assistant.GatewayURL == "" {
			return fmt.Errorf("config: assistant.gateway_url is required for the gateway provider")
		}
	case ProviderGemini:
		if c.Assistant.APIKey == "" {
			return fmt.Errorf("config: assistant.api_key is required for the gemini provider")
		}
	default:
		return fmt.Errorf("config: unknown assistant.provider %q", c.Assistant.Provider)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive")
	}
	return nil
}
