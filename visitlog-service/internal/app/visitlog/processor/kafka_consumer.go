package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eduhub/pkg/logger"
	"eduhub/pkg/metrics"
	"eduhub/pkg/visitlog"

	"github.com/segmentio/kafka-go"
)

const serviceName = "visitlog-service"

// VisitRecorder сохраняет событие посещения в журнал
type VisitRecorder interface {
	RecordEvent(ctx context.Context, event *visitlog.VisitEvent) error
}

// KafkaConsumer читает события посещений из топика visit_events
// и сохраняет их в журнал
type KafkaConsumer struct {
	reader   *kafka.Reader
	topic    string
	groupID  string
	visitSvc VisitRecorder
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	visitSvc VisitRecorder,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		topic:    topic,
		groupID:  groupID,
		visitSvc: visitSvc,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error().Err(err).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().Err(err).Msg("Error processing message")
				metrics.RecordKafkaError(serviceName, c.topic, "consume")
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID)
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("Error committing message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event visitlog.VisitEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal visit event: %w", err)
	}

	logger.Debug().
		Str("path", event.Path).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received visit event")

	if err := c.visitSvc.RecordEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to record visit event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
