package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-LessonBookingService/internal/domain"
	"github.com/m04kA/SMC-LessonBookingService/internal/infra/storage/database"
	"github.com/m04kA/SMC-LessonBookingService/internal/service/slots"
	"github.com/m04kA/SMC-LessonBookingService/pkg/sqlbuilder"
)

// Переменные окружения, перекрывающие значения из config.toml
const (
	EnvDBPassword        = "LESSONS_DB_PASSWORD"
	EnvDBDSN             = "LESSONS_DB_DSN"
	EnvRabbitURL         = "LESSONS_RABBIT_URL"
	EnvProfileServiceURL = "LESSONS_PROFILE_SERVICE_URL"
)

type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	ProfileService ProfileServiceConfig `toml:"profile_service"`
	Notifications  NotificationsConfig  `toml:"notifications"`
	Booking        BookingConfig        `toml:"booking"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	// Driver postgres или sqlite
	Driver string `toml:"driver"`

	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DBName   string `toml:"dbname"`
	SSLMode  string `toml:"sslmode"`

	// DSNOverride готовая строка подключения, если задана, поля выше не используются
	DSNOverride string `toml:"dsn"`

	// Path файл базы для sqlite
	Path string `toml:"path"`

	MaxOpenConns    int `toml:"max_open_conns"`
	MaxIdleConns    int `toml:"max_idle_conns"`
	ConnMaxLifetime int `toml:"conn_max_lifetime"` // секунды

	// AutoMigrate применять миграции при старте сервера
	AutoMigrate bool `toml:"auto_migrate"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ProfileServiceConfig struct {
	// URL пустой - внешний сервис не используется, ставки по умолчанию
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type NotificationsConfig struct {
	Enabled   bool   `toml:"enabled"`
	RabbitURL string `toml:"rabbit_url"`
	Exchange  string `toml:"exchange"`
}

type BookingConfig struct {
	Timezone          string `toml:"timezone"`
	HorizonDays       int    `toml:"horizon_days"`
	PaymentWindow     string `toml:"payment_window"`     // "15m"
	DisplayTolerance  string `toml:"display_tolerance"`  // "5m"
	CollisionPolicy   string `toml:"collision_policy"`   // start_proximity | interval_overlap
	DefaultHourlyRate int    `toml:"default_hourly_rate"`
}

// Load читает config.toml, затем .env (если есть) и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения, которые действуют без config.toml
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          string(sqlbuilder.DialectPostgres),
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			Path:            "lessons.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "lesson_booking_service",
		},
		ProfileService: ProfileServiceConfig{
			Timeout: 5,
		},
		Notifications: NotificationsConfig{
			Exchange: "lessons.bookings",
		},
		Booking: BookingConfig{
			Timezone:          "UTC",
			HorizonDays:       domain.DefaultLookaheadDays,
			PaymentWindow:     domain.DefaultPaymentWindow.String(),
			DisplayTolerance:  domain.DefaultCollisionTolerance.String(),
			CollisionPolicy:   string(slots.PolicyStartProximity),
			DefaultHourlyRate: domain.DefaultHourlyRate,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.Database.DSNOverride = v
	}
	if v := os.Getenv(EnvRabbitURL); v != "" {
		c.Notifications.RabbitURL = v
	}
	if v := os.Getenv(EnvProfileServiceURL); v != "" {
		c.ProfileService.URL = v
	}
}

// Validate проверяет значения, которые нельзя исправить дефолтами
func (c *Config) Validate() error {
	if _, err := c.Database.Dialect(); err != nil {
		return fmt.Errorf("config: database.driver: %w", err)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("config: booking.timezone: %w", err)
	}
	if _, err := c.Booking.PaymentWindowDuration(); err != nil {
		return fmt.Errorf("config: booking.payment_window: %w", err)
	}
	if _, err := c.Booking.DisplayToleranceDuration(); err != nil {
		return fmt.Errorf("config: booking.display_tolerance: %w", err)
	}
	if _, err := slots.ParsePolicy(c.Booking.CollisionPolicy); err != nil {
		return fmt.Errorf("config: booking.collision_policy: %w", err)
	}
	if c.Booking.DefaultHourlyRate <= 0 {
		return fmt.Errorf("config: booking.default_hourly_rate must be positive")
	}
	if c.Notifications.Enabled && c.Notifications.RabbitURL == "" {
		return fmt.Errorf("config: notifications.rabbit_url is required when notifications are enabled")
	}
	return nil
}

// Dialect диалект SQL по database.driver
func (d DatabaseConfig) Dialect() (sqlbuilder.Dialect, error) {
	return sqlbuilder.ParseDialect(d.Driver)
}

// DSN строка подключения к postgres
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Options параметры открытия базы
func (d DatabaseConfig) Options() (database.Options, error) {
	dialect, err := d.Dialect()
	if err != nil {
		return database.Options{}, err
	}

	return database.Options{
		Dialect:         dialect,
		DSN:             d.DSN(),
		Path:            d.Path,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: time.Duration(d.ConnMaxLifetime) * time.Second,
	}, nil
}

// Location часовой пояс, в котором заданы недельные расписания
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

func (b BookingConfig) PaymentWindowDuration() (time.Duration, error) {
	return parsePositiveDuration(b.PaymentWindow)
}

func (b BookingConfig) DisplayToleranceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(b.DisplayTolerance)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative: %s", b.DisplayTolerance)
	}
	return d, nil
}

func (b BookingConfig) Policy() slots.Policy {
	policy, err := slots.ParsePolicy(b.CollisionPolicy)
	if err != nil {
		return slots.PolicyStartProximity
	}
	return policy
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive: %s", s)
	}
	return d, nil
}
