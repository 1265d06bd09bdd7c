package app

import (
	"context"
	"errors"

	"github.com/kscudds/Employee/internal/bootstrap"
	"github.com/kscudds/Employee/internal/config"
	"github.com/kscudds/Employee/internal/employee"
	"github.com/kscudds/Employee/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the infrastructure shared by every module. Redis and Kafka are
// optional and stay nil when not configured.
type App struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Writer *kafka.Writer

	logger *zap.Logger
}

func NewApp(db *gorm.DB, rdb *redis.Client, writer *kafka.Writer) *App {
	return &App{
		DB:     db,
		Redis:  rdb,
		Writer: writer,
		logger: zap.L().Named("app"),
	}
}

// BuildApp connects the infrastructure described by cfg, prepares the schema
// and registers every route on router.
func BuildApp(router *gin.Engine, cfg *config.Config, audit bootstrap.AuditLogger) (*App, error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	db, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries, logger)
		if err != nil {
			closeDB(db)
			return nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Info("redis not configured, employee list cache disabled")
	}

	var writer *kafka.Writer
	if len(cfg.Kafka.Brokers) > 0 {
		writer = connection.NewKafkaWriter(cfg.Kafka.Brokers)
		logger.Info("kafka writer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		logger.Info("kafka not configured, employee events disabled")
	}

	a := NewApp(db, rdb, writer)
	if err := a.Mount(context.Background(), router, cfg, audit); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// Mount migrates the schema, seeds starter data and registers the routes.
// Seeding finishes before Mount returns, so before the server takes traffic.
func (a *App) Mount(ctx context.Context, router *gin.Engine, cfg *config.Config, audit bootstrap.AuditLogger) error {
	if err := a.DB.WithContext(ctx).AutoMigrate(&employee.Employee{}); err != nil {
		return err
	}

	if cfg.SeedOnStart {
		n, err := employee.Seed(ctx, employee.NewRepository(a.DB), a.logger)
		if err != nil {
			return err
		}
		if n > 0 {
			audit.Log(ctx, bootstrap.AuditLog{
				Action:  "EMPLOYEE_SEEDED",
				Message: "Seeded starter employees",
				Meta:    map[string]any{"count": n},
			})
		}
	}

	registerModules(router, a, cfg)
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.Writer != nil {
		errs = append(errs, a.Writer.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
