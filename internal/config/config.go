package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppEnv      string            `yaml:"app_env"`
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	AntiForgery AntiForgeryConfig `yaml:"antiforgery"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	SeedOnStart bool              `yaml:"seed_on_start"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"-"`
	WriteTimeout    time.Duration `yaml:"-"`
	IdleTimeout     time.Duration `yaml:"-"`
	ReadTimeoutRaw  string        `yaml:"read_timeout"`
	WriteTimeoutRaw string        `yaml:"write_timeout"`
	IdleTimeoutRaw  string        `yaml:"idle_timeout"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	Path       string `yaml:"path"`
	MaxRetries int    `yaml:"max_retries"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type AntiForgeryConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func defaults() Config {
	return Config{
		AppEnv: EnvDevelopment,
		HTTP: HTTPConfig{
			Port:            "3000",
			ReadTimeoutRaw:  "5s",
			WriteTimeoutRaw: "10s",
			IdleTimeoutRaw:  "60s",
		},
		Database: DatabaseConfig{
			Driver:     DriverPostgres,
			SSLMode:    "disable",
			MaxRetries: 5,
		},
		Kafka:       KafkaConfig{Topic: "employee.changed"},
		AntiForgery: AntiForgeryConfig{TTLRaw: "2h"},
		RateLimit:   RateLimitConfig{RPS: 1, Burst: 5},
		SeedOnStart: true,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is loaded first if present).
// Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) applyEnv() error {
	setString("APP_ENV", &c.AppEnv)

	setString("PORT", &c.HTTP.Port)
	setString("HTTP_READ_TIMEOUT", &c.HTTP.ReadTimeoutRaw)
	setString("HTTP_WRITE_TIMEOUT", &c.HTTP.WriteTimeoutRaw)
	setString("HTTP_IDLE_TIMEOUT", &c.HTTP.IdleTimeoutRaw)

	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_PORT", &c.Database.Port)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.Name)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("DB_PATH", &c.Database.Path)
	if err := setInt("DB_MAX_RETRIES", &c.Database.MaxRetries); err != nil {
		return err
	}

	setString("REDIS_ADDR", &c.Redis.Addr)

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}
	setString("KAFKA_TOPIC", &c.Kafka.Topic)

	setString("ANTIFORGERY_SECRET", &c.AntiForgery.Secret)
	setString("ANTIFORGERY_TTL", &c.AntiForgery.TTLRaw)

	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimit.RPS = rps
	}
	if err := setInt("RATE_LIMIT_BURST", &c.RateLimit.Burst); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("SEED_ON_START"); ok {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SEED_ON_START: %w", err)
		}
		c.SeedOnStart = seed
	}
	return nil
}

func (c *Config) validateAndNormalize() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("config: app_env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv)
	}

	if c.HTTP.Port == "" {
		return fmt.Errorf("config: http.port must be set")
	}
	var err error
	if c.HTTP.ReadTimeout, err = parseDurationAllowEmpty(c.HTTP.ReadTimeoutRaw); err != nil {
		return fmt.Errorf("config: http.read_timeout: %w", err)
	}
	if c.HTTP.WriteTimeout, err = parseDurationAllowEmpty(c.HTTP.WriteTimeoutRaw); err != nil {
		return fmt.Errorf("config: http.write_timeout: %w", err)
	}
	if c.HTTP.IdleTimeout, err = parseDurationAllowEmpty(c.HTTP.IdleTimeoutRaw); err != nil {
		return fmt.Errorf("config: http.idle_timeout: %w", err)
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	if c.AntiForgery.TTL, err = parseDurationAllowEmpty(c.AntiForgery.TTLRaw); err != nil {
		return fmt.Errorf("config: antiforgery.ttl: %w", err)
	}
	if c.AntiForgery.TTL <= 0 {
		return fmt.Errorf("config: antiforgery.ttl must be positive")
	}
	if c.AntiForgery.Secret == "" {
		if c.IsProduction() {
			return fmt.Errorf("config: antiforgery.secret must be set in production")
		}
		// development only: tokens stop validating after a restart
		c.AntiForgery.Secret = uuid.NewString() + uuid.NewString()
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("config: rate_limit.rps and rate_limit.burst must be positive")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka.topic must be set")
	}
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.MaxRetries <= 0 {
		d.MaxRetries = 1
	}
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("config: database.path must be set for sqlite")
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported database.driver %q", d.Driver)
	}

	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == "" {
		d.Port = "5432"
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
