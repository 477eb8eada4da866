package kafka

import (
	"encoding/json"
	"fmt"

	"brainrot/types"

	"github.com/IBM/sarama"
)

// ResultProducer publishes finished job snapshots keyed by job id.
type ResultProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewResultProducer(brokers []string, topic string) (*ResultProducer, error) {
	p, err := sarama.NewSyncProducer(brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	return NewResultProducerWith(p, topic), nil
}

// NewResultProducerWith wraps an existing producer.
func NewResultProducerWith(p sarama.SyncProducer, topic string) *ResultProducer {
	return &ResultProducer{producer: p, topic: topic}
}

func (r *ResultProducer) Send(job types.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	_, _, err = r.producer.SendMessage(&sarama.ProducerMessage{
		Topic: r.topic,
		Key:   sarama.StringEncoder(job.ID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("failed to publish result for %s: %w", job.ID, err)
	}
	return nil
}

func (r *ResultProducer) Close() error {
	return r.producer.Close()
}
