package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
// Загружается один раз при старте и дальше только читается
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Database  DatabaseConfig  `toml:"database"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	NLU       NLUConfig       `toml:"nlu"`
	Meta      MetaConfig      `toml:"meta"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Sheets    SheetsConfig    `toml:"sheets"`
	Dispatch  DispatchConfig  `toml:"dispatch"`
	Admin     AdminConfig     `toml:"admin"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	DSNOverride     string `toml:"dsn"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл БД для sqlite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	if d.Driver == "sqlite" {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", d.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// EnsureDataDir создает каталог файла БД для sqlite
// Для postgres и явно заданного DSN ничего не делает
func (d DatabaseConfig) EnsureDataDir() error {
	if d.Driver != "sqlite" || d.DSNOverride != "" || d.Path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return fmt.Errorf("config: create data dir for %s: %w", d.Path, err)
	}
	return nil
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	RequiredSlots   []string `toml:"required_slots"`
	ConfirmTemplate string   `toml:"confirm_template"`
	DefaultReply    string   `toml:"default_reply"`
	RateLimitReply  string   `toml:"rate_limit_reply"`
}

// Slots упорядоченный набор обязательных слотов
func (b BookingConfig) Slots() domain.RequiredSlots {
	return domain.NewRequiredSlots(b.RequiredSlots)
}

type RateLimitConfig struct {
	MaxRequests      int `toml:"max_requests"`
	WindowSeconds    int `toml:"window_seconds"`
	EvictionInterval int `toml:"eviction_interval"` // секунды
}

type NLUConfig struct {
	Provider         string `toml:"provider"` // openai | gemini
	APIKey           string `toml:"api_key"`
	Model            string `toml:"model"`
	BaseURL          string `toml:"base_url"`
	Timeout          int    `toml:"timeout"` // секунды
	SystemPromptFile string `toml:"system_prompt_file"`
}

type MetaConfig struct {
	VerifyToken     string `toml:"verify_token"`
	PageAccessToken string `toml:"page_access_token"`
	AppSecret       string `toml:"app_secret"`
	IGBusinessID    string `toml:"ig_business_id"`
	GraphURL        string `toml:"graph_url"`
	Timeout         int    `toml:"timeout"` // секунды
}

type TelegramConfig struct {
	BotToken          string  `toml:"bot_token"`
	SecretToken       string  `toml:"secret_token"`
	APIURL            string  `toml:"api_url"`
	Timeout           int     `toml:"timeout"` // секунды
	MessagesPerSecond float64 `toml:"messages_per_second"`
}

type SheetsConfig struct {
	SheetID                  string `toml:"sheet_id"`
	ServiceAccountFile       string `toml:"service_account_file"`
	ServiceAccountJSONBase64 string `toml:"service_account_json_base64"`
	Timeout                  int    `toml:"timeout"` // секунды
}

// Enabled зеркалирование включено, если указаны таблица и учетные данные
func (s SheetsConfig) Enabled() bool {
	return s.SheetID != "" && (s.ServiceAccountJSONBase64 != "" || s.ServiceAccountFile != "")
}

type DispatchConfig struct {
	Timeout int `toml:"timeout"` // секунды
}

type AdminConfig struct {
	Token string `toml:"token"`
}

// Load читает TOML-файл, применяет переменные окружения и значения по умолчанию
// Если файла нет, конфигурация собирается только из окружения и дефолтов
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет секреты из окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSNOverride, "DATABASE_DSN")
	setString(&cfg.Admin.Token, "ADMIN_TOKEN")

	switch cfg.NLU.Provider {
	case "gemini":
		setString(&cfg.NLU.APIKey, "GEMINI_API_KEY")
	default:
		setString(&cfg.NLU.APIKey, "OPENAI_API_KEY")
	}
	setString(&cfg.NLU.Model, "NLU_MODEL")

	setString(&cfg.Meta.VerifyToken, "META_VERIFY_TOKEN")
	setString(&cfg.Meta.PageAccessToken, "META_PAGE_ACCESS_TOKEN")
	setString(&cfg.Meta.AppSecret, "META_APP_SECRET")
	setString(&cfg.Meta.IGBusinessID, "IG_BUSINESS_ID")

	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.SecretToken, "TELEGRAM_SECRET_TOKEN")

	setString(&cfg.Sheets.SheetID, "SHEET_ID")
	setString(&cfg.Sheets.ServiceAccountFile, "GOOGLE_SERVICE_ACCOUNT_FILE")
	setString(&cfg.Sheets.ServiceAccountJSONBase64, "GOOGLE_SERVICE_ACCOUNT_JSON_BASE64")

	if raw, ok := os.LookupEnv("REQUIRED_SLOTS"); ok && strings.TrimSpace(raw) != "" {
		cfg.Booking.RequiredSlots = domain.ParseRequiredSlots(raw)
	}
	if raw, ok := os.LookupEnv("PORT"); ok {
		if port, err := strconv.Atoi(raw); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	setDefaultInt(&cfg.Server.HTTPPort, 8000)
	setDefaultInt(&cfg.Server.ReadTimeout, 15)
	setDefaultInt(&cfg.Server.WriteTimeout, 30)
	setDefaultInt(&cfg.Server.IdleTimeout, 60)
	setDefaultInt(&cfg.Server.ShutdownTimeout, 10)

	setDefaultString(&cfg.Logs.Level, "info")

	setDefaultString(&cfg.Database.Driver, "sqlite")
	setDefaultString(&cfg.Database.Path, "data/app.db")
	setDefaultString(&cfg.Database.Host, "localhost")
	setDefaultInt(&cfg.Database.Port, 5432)
	setDefaultString(&cfg.Database.SSLMode, "disable")
	setDefaultInt(&cfg.Database.MaxOpenConns, 10)
	setDefaultInt(&cfg.Database.MaxIdleConns, 5)
	setDefaultInt(&cfg.Database.ConnMaxLifetime, 300)

	setDefaultString(&cfg.Metrics.Path, "/metrics")
	setDefaultString(&cfg.Metrics.ServiceName, "appointment-bot")

	if len(cfg.Booking.RequiredSlots) == 0 {
		cfg.Booking.RequiredSlots = domain.ParseRequiredSlots(domain.DefaultRequiredSlots)
	} else {
		cfg.Booking.RequiredSlots = domain.NewRequiredSlots(cfg.Booking.RequiredSlots)
	}
	setDefaultString(&cfg.Booking.ConfirmTemplate, domain.DefaultConfirmTemplate)
	setDefaultString(&cfg.Booking.DefaultReply, domain.DefaultReply)
	setDefaultString(&cfg.Booking.RateLimitReply, domain.DefaultRateLimitReply)

	setDefaultInt(&cfg.RateLimit.MaxRequests, domain.DefaultRateLimitMaxRequests)
	setDefaultInt(&cfg.RateLimit.WindowSeconds, domain.DefaultRateLimitWindowSeconds)
	setDefaultInt(&cfg.RateLimit.EvictionInterval, 300)

	setDefaultString(&cfg.NLU.Provider, "openai")
	setDefaultInt(&cfg.NLU.Timeout, 8)

	setDefaultString(&cfg.Meta.GraphURL, "https://graph.facebook.com/v20.0")
	setDefaultInt(&cfg.Meta.Timeout, 10)

	setDefaultString(&cfg.Telegram.APIURL, "https://api.telegram.org")
	setDefaultInt(&cfg.Telegram.Timeout, 10)
	if cfg.Telegram.MessagesPerSecond <= 0 {
		cfg.Telegram.MessagesPerSecond = 30
	}

	setDefaultInt(&cfg.Sheets.Timeout, 10)
	setDefaultInt(&cfg.Dispatch.Timeout, 10)
}

func setDefaultInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func setDefaultString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: database.driver must be postgres or sqlite, got %q", ErrInvalidConfig, c.Database.Driver)
	}

	if len(c.Booking.RequiredSlots) == 0 {
		return fmt.Errorf("%w: booking.required_slots is empty", ErrInvalidConfig)
	}

	if c.RateLimit.MaxRequests < 1 {
		return fmt.Errorf("%w: rate_limit.max_requests must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.WindowSeconds < 1 {
		return fmt.Errorf("%w: rate_limit.window_seconds must be positive", ErrInvalidConfig)
	}

	switch c.NLU.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("%w: nlu.provider must be openai or gemini, got %q", ErrInvalidConfig, c.NLU.Provider)
	}
	if c.NLU.Timeout < 1 {
		return fmt.Errorf("%w: nlu.timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
