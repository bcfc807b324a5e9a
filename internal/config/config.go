package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	// CancelModeDelete студент отменяет запись удалением
	CancelModeDelete = "delete"
	// CancelModeStatus студент отменяет запись переводом в Cancelled
	CancelModeStatus = "status"
)

type Config struct {
	Environment       string        `mapstructure:"ENV"`
	HTTPAddr          string        `mapstructure:"HTTP_ADDR"`
	DBDSN             string        `mapstructure:"DB_DSN"`
	Storage           string        `mapstructure:"STORAGE"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTTTL            time.Duration `mapstructure:"JWT_TTL"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StudentCancelMode string        `mapstructure:"STUDENT_CANCEL_MODE"`
	TelegramToken     string        `mapstructure:"TELEGRAM_TOKEN"`
	ResendAPIKey      string        `mapstructure:"RESEND_API_KEY"`
	MailFrom          string        `mapstructure:"MAIL_FROM"`
	DigestInterval    time.Duration `mapstructure:"DIGEST_INTERVAL"`
	MigrateOnStart    bool          `mapstructure:"MIGRATE_ON_START"`

	location *time.Location
}

// devJWTSecret используется только вне production
const devJWTSecret = "dev-insecure-secret-change-me"

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromViper(viper.New())
}

// FromViper собирает конфиг из уже подготовленного экземпляра viper
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Environment:       v.GetString("ENV"),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		DBDSN:             v.GetString("DB_DSN"),
		Storage:           strings.ToLower(v.GetString("STORAGE")),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		Timezone:          v.GetString("TIMEZONE"),
		RequestTimeout:    v.GetDuration("REQUEST_TIMEOUT"),
		StudentCancelMode: strings.ToLower(v.GetString("STUDENT_CANCEL_MODE")),
		TelegramToken:     v.GetString("TELEGRAM_TOKEN"),
		ResendAPIKey:      v.GetString("RESEND_API_KEY"),
		MailFrom:          v.GetString("MAIL_FROM"),
		DigestInterval:    v.GetDuration("DIGEST_INTERVAL"),
		MigrateOnStart:    v.GetBool("MIGRATE_ON_START"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("STUDENT_CANCEL_MODE", CancelModeDelete)
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("MAIL_FROM", "noreply@localhost")
	v.SetDefault("DIGEST_INTERVAL", 24*time.Hour)
	v.SetDefault("MIGRATE_ON_START", true)
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		// Проверяем обязательные поля
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	switch c.StudentCancelMode {
	case CancelModeDelete, CancelModeStatus:
	default:
		return fmt.Errorf("unknown STUDENT_CANCEL_MODE %q", c.StudentCancelMode)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = devJWTSecret
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location часовой пояс, в котором трактуются даты бронирования
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
