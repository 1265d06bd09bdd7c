package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kscudds/Employee/internal/employee"
	"github.com/kscudds/Employee/internal/events"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func TestKafkaEventPublisher(t *testing.T) {
	ctx := context.Background()
	event := events.EmployeeChangedEvent{
		EventType:  events.EmployeeUpdated,
		RequestID:  "REQ-1",
		EmployeeID: 42,
		LastName:   "Adams",
		FirstName:  "John",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("message keyed by employee id", func(t *testing.T) {
		w := &fakeWriter{}
		pub := employee.NewKafkaEventPublisher(w, "employee.changed")

		assert.NoError(t, pub.PublishEmployeeChanged(ctx, event))

		if assert.Len(t, w.msgs, 1) {
			msg := w.msgs[0]
			assert.Equal(t, "employee.changed", msg.Topic)
			assert.Equal(t, "42", string(msg.Key))
			if assert.Len(t, msg.Headers, 1) {
				assert.Equal(t, "event_type", msg.Headers[0].Key)
				assert.Equal(t, events.EmployeeUpdated, string(msg.Headers[0].Value))
			}

			var decoded events.EmployeeChangedEvent
			assert.NoError(t, json.Unmarshal(msg.Value, &decoded))
			assert.Equal(t, event, decoded)
		}
	})

	t.Run("writer failure is returned", func(t *testing.T) {
		errBroker := errors.New("leader not available")
		pub := employee.NewKafkaEventPublisher(&fakeWriter{err: errBroker}, "employee.changed")

		assert.ErrorIs(t, pub.PublishEmployeeChanged(ctx, event), errBroker)
	})

	t.Run("noop", func(t *testing.T) {
		assert.NoError(t, employee.NewNoopEventPublisher().PublishEmployeeChanged(ctx, event))
	})
}
