package repository

import (
	"context"

	"QuantDesk/internal/domain/models"
	"QuantDesk/internal/domain/repository"
	pkgkafka "QuantDesk/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher for Kafka.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) repository.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func alertPayload(a models.Alert) map[string]interface{} {
	m := map[string]interface{}{
		"ticker":    a.Ticker,
		"domain_id": a.DomainID,
		"reasons":   a.Reasons,
		"ts":        a.Timestamp.Unix(),
	}
	if a.RSI != nil {
		m["rsi"] = *a.RSI
	}
	if a.DistanceFromHigh != nil {
		m["distance_from_high"] = *a.DistanceFromHigh
	}
	return m
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.Ticker),
			Value: alertPayload(a),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
