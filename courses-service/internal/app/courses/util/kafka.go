package util

import (
	"context"
	"fmt"
	"time"

	"eduhub/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer отправляет события об отзывах в топик review_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:  kafka.TCP(brokers...),
		Topic: topic,
		// Балансировка по наименьшему количеству байт
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 1 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage отправляет сообщение в Kafka.
// key - ReviewID: все события одного отзыва попадают в одну партицию.
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError("courses-service", p.topic, "produce")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.RecordKafkaMessageProduced("courses-service", p.topic)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
