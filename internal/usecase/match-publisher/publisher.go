package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/lions-mane/tracer-ome/internal/domain/match-publisher/v1"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/errors"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka publisher for publishing match events.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a new Kafka publisher for publishing match events.
func NewPublisher(config config.MatchPublisherConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishMatchEvent publishes a match event to the match topic. The market
// address keys the message so every fill for one market lands on the same
// partition in order.
func (p *Publisher) PublishMatchEvent(ctx context.Context, event *matchpublisherv1.MatchEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.Market),
		Value: matchpublisherv1.ToBytes(event),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "market", Value: event.Market},
			logger.Field{Key: "makerID", Value: event.MakerID},
			logger.Field{Key: "takerID", Value: event.TakerID},
		)
		return errors.NewTracer(string(errors.MatchPublishError)).Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
