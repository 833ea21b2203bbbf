package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jgoulah/smarthome/internal/config"
	"github.com/jgoulah/smarthome/pkg/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes usage records to a Kafka topic keyed by device id
type KafkaSink struct {
	writer messageWriter
	topic  string
}

// NewKafka creates a synchronous writer for the configured topic
func NewKafka(cfg config.KafkaConfig) (*KafkaSink, error) {
	if !cfg.Enabled {
		return nil, errors.New("Kafka publishing is not enabled in config")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one Kafka broker is required when enabled")
	}

	topic := cfg.GetTopic()
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{writer: w, topic: topic}, nil
}

// Publish writes one usage record
func (s *KafkaSink) Publish(ctx context.Context, u models.DeviceUsage) error {
	body, err := Encode(u)
	if err != nil {
		return err
	}

	msg := kafka.Message{Key: Key(u), Value: body}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing to %s: %w", s.topic, err)
	}
	return nil
}

// Close flushes and closes the writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
