package visitlog

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"eduhub/pkg/metrics"
)

// KafkaPublisher - обертка над Kafka writer для отправки событий посещений
type KafkaPublisher struct {
	writer      *kafka.Writer
	serviceName string
	topic       string
}

// NewKafkaPublisher создает producer для топика visit_events.
// Небольшой батч с коротким таймаутом: события посещений мелкие и частые,
// задержка доставки отчётам не важна.
func NewKafkaPublisher(serviceName string, brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: time.Second,
	}

	return &KafkaPublisher{
		writer:      writer,
		serviceName: serviceName,
		topic:       topic,
	}
}

// PublishMessage отправляет событие в Kafka.
// key используется для партиционирования (путь страницы).
func (p *KafkaPublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(p.serviceName, p.topic, "produce")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.RecordKafkaMessageProduced(p.serviceName, p.topic)
	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
