package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/kscudds/Employee/internal/bootstrap"
	"github.com/kscudds/Employee/internal/config"
	"github.com/kscudds/Employee/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditConsumerGroup = "employee-audit"

// RunConsumer records employee change events in the audit log until
// SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config, audit bootstrap.AuditLogger) error {
	logger := zap.L().Named("app.consumer")

	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        auditConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeEmployeeChanged(ctx, reader, audit, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
