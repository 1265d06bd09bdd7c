package employee

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/kscudds/Employee/internal/events"

	"github.com/segmentio/kafka-go"
)

type EventPublisher interface {
	PublishEmployeeChanged(ctx context.Context, event events.EmployeeChangedEvent) error
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishEmployeeChanged(context.Context, events.EmployeeChangedEvent) error {
	return nil
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaEventPublisher struct {
	writer MessageWriter
	topic  string
}

func NewKafkaEventPublisher(writer MessageWriter, topic string) EventPublisher {
	return &kafkaEventPublisher{writer: writer, topic: topic}
}

func (p *kafkaEventPublisher) PublishEmployeeChanged(
	ctx context.Context,
	event events.EmployeeChangedEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(strconv.FormatUint(uint64(event.EmployeeID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	})
}
