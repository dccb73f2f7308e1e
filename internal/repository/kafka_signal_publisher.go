package repository

import (
	"context"

	"TradeCompass/internal/domain/models"
	"TradeCompass/internal/domain/repository"
	pkgkafka "TradeCompass/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka-backed signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, ev *models.SignalEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Ticker), ev)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopSignalPublisher is used when signal publishing is disabled.
type NopSignalPublisher struct{}

func (NopSignalPublisher) Publish(context.Context, *models.SignalEvent) error { return nil }
func (NopSignalPublisher) Close() error                                       { return nil }
