package notifier

import (
	"context"
	"fmt"
	"time"

	"CrossoverSentinel/internal/model"

	"github.com/mailru/easyjson"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes every crossover of a scan as one message keyed by symbol.
type KafkaPublisher struct {
	Writer MessageWriter
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			AllowAutoTopicCreation: true,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

// Publish writes the events of res, tagged with the run id.
func (p *KafkaPublisher) Publish(ctx context.Context, res *model.ScanResult) error {
	if len(res.Events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(res.Events))
	for _, e := range res.Events {
		value, err := easyjson.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.Symbol, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Symbol),
			Value: value,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(res.RunID)},
				{Key: "direction", Value: []byte(e.Direction)},
			},
		})
	}
	if err := p.Writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}
