package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kscudds/Employee/internal/config"
	"github.com/stretchr/testify/assert"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "hris")
	t.Setenv("DB_NAME", "employees")
	t.Setenv("ANTIFORGERY_SECRET", "")
}

func TestLoad(t *testing.T) {
	t.Run("defaults from env", func(t *testing.T) {
		setBaseEnv(t)

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "3000", cfg.HTTP.Port)
		assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
		assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, 2*time.Hour, cfg.AntiForgery.TTL)
		assert.NotEmpty(t, cfg.AntiForgery.Secret, "development generates a secret")
		assert.True(t, cfg.SeedOnStart)
		assert.Equal(t, "employee.changed", cfg.Kafka.Topic)
	})

	t.Run("yaml file overlaid by env", func(t *testing.T) {
		setBaseEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := []byte(`http:
  port: "8080"
  read_timeout: "2s"
database:
  driver: sqlite
  path: /tmp/employees.db
kafka:
  brokers: ["k1:9092"]
seed_on_start: false
`)
		assert.NoError(t, os.WriteFile(path, content, 0o600))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

		cfg, err := config.Load()

		assert.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTP.Port)
		assert.Equal(t, 2*time.Second, cfg.HTTP.ReadTimeout)
		assert.Equal(t, "/tmp/employees.db", cfg.Database.DSN())
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
		assert.False(t, cfg.SeedOnStart)
	})

	t.Run("production requires antiforgery secret", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("APP_ENV", "production")

		_, err := config.Load()

		assert.ErrorContains(t, err, "antiforgery.secret")
	})

	t.Run("invalid duration", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("HTTP_WRITE_TIMEOUT", "soon")

		_, err := config.Load()

		assert.ErrorContains(t, err, "http.write_timeout")
	})

	t.Run("missing postgres host", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DB_HOST", "")

		_, err := config.Load()

		assert.ErrorContains(t, err, "database.host")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		Host:     "db.local",
		Port:     "5432",
		User:     "hris",
		Password: "secret",
		Name:     "employees",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.local user=hris password=secret dbname=employees port=5432 sslmode=require",
		cfg.DSN(),
	)
}
