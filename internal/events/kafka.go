package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher writes domain events to a Kafka topic for downstream
// consumers (notifications, analytics). It is optional; when no brokers
// are configured the bus runs without it.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaPublisher{
		writer: w,
		log:    log.With(zap.String("component", "kafka")),
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	value, err := json.Marshal(event)
	if err != nil {
		k.log.Warn("Failed to encode event", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Kind + ":" + event.EntityID.String()),
		Value: value,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("kind", event.Kind),
			zap.String("action", event.Action),
		)
	}
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
