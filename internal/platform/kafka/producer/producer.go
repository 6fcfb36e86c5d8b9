// Package producer wraps a franz-go client for fire-and-forget publishing.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

var ErrClosed = errors.New("producer is closed")

// Message represents a message to be published to Kafka.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Config holds producer configuration.
type Config struct {
	Brokers         string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// DefaultConfig returns the delivery settings used when only brokers are set.
func DefaultConfig(brokers string) Config {
	return Config{
		Brokers:         brokers,
		Acks:            "1",
		Retries:         3,
		DeliveryTimeout: 30 * time.Second,
	}
}

// DeliveryErrorFunc is called from the client's goroutine for every record
// that could not be delivered.
type DeliveryErrorFunc func(topic string, err error)

type Option func(*Producer)

// WithDeliveryErrorHandler registers fn for failed deliveries.
func WithDeliveryErrorHandler(fn DeliveryErrorFunc) Option {
	return func(p *Producer) {
		p.onDeliveryError = fn
	}
}

// Producer buffers records and delivers them in the background.
type Producer struct {
	client          *kgo.Client
	logger          *slog.Logger
	onDeliveryError DeliveryErrorFunc
	mu              sync.RWMutex
	closed          bool
}

// New creates a new Kafka producer.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Producer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var acks kgo.Acks
	switch cfg.Acks {
	case "0":
		acks = kgo.NoAck()
	case "all", "-1":
		acks = kgo.AllISRAcks()
	default:
		acks = kgo.LeaderAck()
	}

	kopts := []kgo.Opt{
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.RequiredAcks(acks),
		kgo.RecordRetries(cfg.Retries),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	// Idempotent writes require acks from all in-sync replicas.
	if cfg.Acks != "all" && cfg.Acks != "-1" {
		kopts = append(kopts, kgo.DisableIdempotentWrite())
	}
	if cfg.DeliveryTimeout > 0 {
		kopts = append(kopts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{client: client, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ProduceAsync buffers msg for background delivery. It returns without
// waiting for the broker.
func (p *Producer) ProduceAsync(msg *Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	record := &kgo.Record{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
	p.client.Produce(context.Background(), record, func(r *kgo.Record, err error) {
		if err == nil {
			return
		}
		p.logger.Error("kafka delivery failed",
			"topic", r.Topic,
			"partition", r.Partition,
			"error", err,
		)
		if p.onDeliveryError != nil {
			p.onDeliveryError(r.Topic, err)
		}
	})
	return nil
}

// Flush waits until every buffered record has been delivered or ctx ends.
func (p *Producer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Close flushes for up to timeout and shuts the client down.
func (p *Producer) Close(timeout time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed messages",
			"buffered", p.client.BufferedProduceRecords(),
			"error", err,
		)
	}
	p.client.Close()
}

// Health reports whether the brokers are reachable.
func (p *Producer) Health(ctx context.Context) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return p.client.Ping(ctx)
}
