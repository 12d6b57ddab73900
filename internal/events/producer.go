package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer delivers one message to the broker.
type Producer interface {
	SendMessage(ctx context.Context, topic string, key, value []byte) error
	Close() error
}

// KafkaConfig configures the kafka-go writer.
type KafkaConfig struct {
	Brokers      []string
	WriteTimeout time.Duration
}

// KafkaProducer publishes through a kafka-go Writer. The topic is set per
// message so one writer serves every outbox topic.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer builds a producer for the given brokers.
func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one kafka broker is required")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           timeout,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// SendMessage writes a single message and waits for the acknowledgement.
func (p *KafkaProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("events: write to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// LogProducer writes every message to a structured logger. It is used when
// no broker is configured.
type LogProducer struct {
	logger *slog.Logger
}

// NewLogProducer returns a producer that only logs.
func NewLogProducer(logger *slog.Logger) *LogProducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProducer{logger: logger.With("component", "events")}
}

func (p *LogProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "event published",
		"topic", topic,
		"key", string(key),
		"value", string(value),
	)
	return nil
}

func (p *LogProducer) Close() error {
	return nil
}
