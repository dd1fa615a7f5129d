package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/app"
	"github.com/dwikikusuma/buensabor-storefront/internal/checkout/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes one message per checkout attempt, keyed by session so a
// session's events stay ordered within a partition.
type Publisher struct {
	w messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{w: &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}}
}

var _ app.Publisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(e.SessionID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(e.Outcome)},
		},
	})
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
