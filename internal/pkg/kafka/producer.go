package kafka

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Producer publishes records synchronously on a Kafka client.
type Producer struct {
	kfk *kgo.Client
}

// NewProducer creates a new producer backed by the given client.
func NewProducer(kfk *kgo.Client) *Producer {
	return &Producer{kfk: kfk}
}

// Publish produces a single record and waits for it to be acknowledged.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	record := &kgo.Record{
		Topic: topic,
		Key:   key,
		Value: value,
	}

	if err := p.kfk.ProduceSync(ctx, record).FirstErr(); err != nil {
		return status.Errorf(codes.Unavailable, "failed to publish record to %s: %v", topic, err)
	}

	return nil
}
