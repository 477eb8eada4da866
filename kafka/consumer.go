// Package kafka consumes render requests from a topic and reports results.
package kafka

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/IBM/sarama"
)

// MessageHandler processes one consumed message.
type MessageHandler interface {
	// HandleMessage returns whether the message should be marked as processed.
	// An unmarked message is redelivered after a rebalance or restart.
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Handler MessageHandler
}

// ConsumerStats counts handled messages since Start.
type ConsumerStats struct {
	Marked   int64
	Unmarked int64
}

// Consumer feeds the messages of one topic to a MessageHandler, one at a
// time per claimed partition.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
	topic   string
	groupID string

	readyOnce sync.Once
	ready     chan struct{}

	marked   atomic.Int64
	unmarked atomic.Int64
}

func newSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	return cfg
}

func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	if config.Handler == nil {
		return nil, errors.New("kafka: handler is required")
	}
	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, newSaramaConfig())
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   group,
		handler: config.Handler,
		topic:   config.Topic,
		groupID: config.GroupID,
		ready:   make(chan struct{}),
	}, nil
}

// Start joins the group and returns once the first session is set up or ctx
// is done. Consumption continues in the background until ctx is canceled,
// rejoining after every rebalance.
func (c *Consumer) Start(ctx context.Context) error {
	go c.consume(ctx)
	go func() {
		for err := range c.group.Errors() {
			log.Printf("Kafka consumer error: %v", err)
		}
	}()

	select {
	case <-c.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Printf("Kafka consumer started (group: %s, topic: %s)", c.groupID, c.topic)
	return nil
}

func (c *Consumer) consume(ctx context.Context) {
	for ctx.Err() == nil {
		err := c.group.Consume(ctx, []string{c.topic}, groupHandler{c})
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, sarama.ErrClosedConsumerGroup):
			log.Println("Kafka consumer stopped")
			return
		case err != nil:
			log.Printf("Error from Kafka consumer: %v", err)
		}
	}
}

// handle runs the handler on one message and marks it when told to.
func (c *Consumer) handle(session sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) {
	log.Printf("Received render request: partition=%d, offset=%d, key=%s",
		message.Partition, message.Offset, string(message.Key))

	mark, err := c.handler.HandleMessage(session.Context(), message.Value)
	if err != nil {
		log.Printf("Render request at offset %d left for redelivery: %v", message.Offset, err)
	}
	if !mark {
		c.unmarked.Add(1)
		return
	}
	session.MarkMessage(message, "")
	c.marked.Add(1)
}

// Stats returns the handled message counts.
func (c *Consumer) Stats() ConsumerStats {
	return ConsumerStats{Marked: c.marked.Load(), Unmarked: c.unmarked.Load()}
}

// Close gracefully shuts down the consumer
func (c *Consumer) Close() error {
	stats := c.Stats()
	log.Printf("Closing Kafka consumer (%d marked, %d left for redelivery)", stats.Marked, stats.Unmarked)
	return c.group.Close()
}

// groupHandler adapts a Consumer to sarama.ConsumerGroupHandler.
type groupHandler struct {
	c *Consumer
}

func (h groupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.c.readyOnce.Do(func() { close(h.c.ready) })
	return nil
}

func (h groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.c.handle(session, message)
		case <-session.Context().Done():
			return nil
		}
	}
}
