// Package events publishes presentation events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"certificate-api/internal/platform/kafka/producer"
	"certificate-api/internal/presentation/models"
)

//go:generate mockgen -source=sink.go -destination=mocks/sink_mock.go -package=mocks

// Publisher buffers messages for asynchronous delivery.
type Publisher interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaSink writes every event as a JSON record to one topic. Emit never
// waits for the broker.
type KafkaSink struct {
	publisher Publisher
	topic     string
	newKey    func() string
	logger    *slog.Logger
}

type Option func(*KafkaSink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *KafkaSink) {
		s.logger = logger
	}
}

// WithKeyFunc overrides how record keys are generated.
func WithKeyFunc(fn func() string) Option {
	return func(s *KafkaSink) {
		s.newKey = fn
	}
}

func NewKafkaSink(publisher Publisher, topic string, opts ...Option) *KafkaSink {
	s := &KafkaSink{
		publisher: publisher,
		topic:     topic,
		newKey:    uuid.NewString,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KafkaSink) Emit(_ context.Context, event models.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(s.newKey()),
		Value: value,
		Headers: map[string]string{
			"event_type": string(event.Type),
		},
	}
	if err := s.publisher.ProduceAsync(msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// NoopSink drops every event. It is used when Kafka is not configured.
type NoopSink struct{}

func (NoopSink) Emit(context.Context, models.Event) error {
	return nil
}
