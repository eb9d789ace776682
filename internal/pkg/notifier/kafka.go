package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes notification requests to a Kafka topic consumed by
// the external delivery service. Messages are keyed by recipient so one user's
// notifications stay ordered.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaNotifier creates a KafkaNotifier writing to the given brokers/topic.
func NewKafkaNotifier(brokers []string, topic string, logger zerolog.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaNotifier{
		writer: writer,
		logger: logger,
	}
}

// Notify publishes the notification request.
func (n *KafkaNotifier) Notify(ctx context.Context, msg Notification) error {
	msg = stamped(msg)
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(msg.RecipientID, 10)),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	n.logger.Debug().
		Str("id", msg.ID).
		Str("kind", msg.Kind).
		Int64("recipientId", msg.RecipientID).
		Msg("Notification published")
	return nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
