package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kscudds/Employee/internal/bootstrap"
	"github.com/kscudds/Employee/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEmployeeChanged turns employee change events into audit entries until
// ctx is cancelled. Undecodable or unknown events are committed and skipped.
func ConsumeEmployeeChanged(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_changed")
	log.Info("employee changed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee changed consumer stopped")
				return
			}
			log.Error("fetch employee changed message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee changed event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			commit(ctx, reader, msg, log)
			continue
		}

		if !knownEventType(event.EventType) {
			log.Warn("unknown employee event type, skipping",
				zap.String("event_type", event.EventType),
				zap.Int64("offset", msg.Offset),
			)
			commit(ctx, reader, msg, log)
			continue
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  strings.ToUpper(event.EventType),
			Message: "Employee record changed",
			Meta: map[string]any{
				"employee_id": event.EmployeeID,
				"request_id":  event.RequestID,
				"occurred_at": event.OccurredAt,
			},
		})

		if commit(ctx, reader, msg, log) {
			log.Debug("employee changed event recorded",
				zap.String("event_type", event.EventType),
				zap.Uint("employee_id", event.EmployeeID),
			)
		}
	}
}

func knownEventType(t string) bool {
	switch t {
	case events.EmployeeCreated, events.EmployeeUpdated, events.EmployeeDeleted:
		return true
	}
	return false
}

func commit(ctx context.Context, reader MessageReader, msg kafkago.Message, log *zap.Logger) bool {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit employee changed message failed", zap.Error(err))
		return false
	}
	return true
}
