package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/floodhub-etl/internal/config"
	"github.com/couchcryptid/floodhub-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes forecast records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes every record in a single WriteMessages call. Records are
// keyed by gauge id so one gauge's forecasts stay on one partition.
func (w *Writer) Publish(ctx context.Context, runID string, records []domain.ForecastRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(runID, records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish forecasts: %w", err)
	}
	w.logger.Info("forecasts published", "topic", w.writer.Topic, "messages", len(msgs), "run_id", runID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastRecord into a Kafka message.
func serializeToMessage(runID string, record domain.ForecastRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.GaugeID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "issue_date", Value: []byte(domain.FormatDate(record.IssueDate))},
		},
	}, nil
}
