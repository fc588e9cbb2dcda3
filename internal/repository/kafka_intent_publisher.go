package repository

import (
	"context"
	"fmt"

	"TradeCore/internal/domain/models"
	pkgkafka "TradeCore/pkg/kafka"
)

// KafkaIntentPublisher hands admitted intents to the execution collaborator
// over a Kafka topic, keyed by instrument so per-instrument ordering holds.
type KafkaIntentPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaIntentPublisher(producer *pkgkafka.Producer, topic string) *KafkaIntentPublisher {
	return &KafkaIntentPublisher{producer: producer, topic: topic}
}

func (p *KafkaIntentPublisher) Publish(ctx context.Context, intent *models.TradeIntent) error {
	if intent == nil {
		return fmt.Errorf("intent is nil")
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(intent.Instrument), intent); err != nil {
		return fmt.Errorf("publish intent: %w", err)
	}
	return nil
}

func (p *KafkaIntentPublisher) Close() error {
	return p.producer.Close()
}
