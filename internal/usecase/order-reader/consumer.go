package orderreader

import (
	"context"
	"encoding/json"

	orderreaderv1 "github.com/lions-mane/tracer-ome/internal/domain/order-reader/v1"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader represents a Kafka reader for consuming messages from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a new Kafka reader for consuming messages from the order
// topic. The reader pins partition 0 and manages its own offsets: the engine
// seeks explicitly based on the last snapshot rather than using consumer
// groups, so replay after a restart stays deterministic.
func NewReader(config config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the order topic and parses it as an
// OrderRequest, stamping the request with the message offset.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{Offset: 0}, nil, err
	}

	var request orderreaderv1.OrderRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrderRequest")
		return kafka.Message{Offset: 0}, nil, err
	}

	request.Offset = msg.Offset

	r.logger.Info("ReadMessage",
		logger.Field{Key: "action", Value: request.Action},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, &request, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
