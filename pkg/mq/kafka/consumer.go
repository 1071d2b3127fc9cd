package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-esbulk/pkg/settings"
)

var (
	ErrBrokersRequired = errors.New("kafka: brokers must not be empty")
	ErrTopicsRequired  = errors.New("kafka: topics must not be empty")
	ErrGroupRequired   = errors.New("kafka: group id must not be empty")
)

// Consumer runs a consumer group feeding a Handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
	logger  *zap.Logger
}

// NewConfig translates settings into a sarama configuration.
func NewConfig(cfg settings.Kafka) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	sc.ClientID = "esbulk"
	sc.Consumer.Return.Errors = true

	switch cfg.InitialOffset {
	case "", "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	case "newest":
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	default:
		return nil, fmt.Errorf("kafka: unknown initial offset %q", cfg.InitialOffset)
	}

	if cfg.Version != "" {
		version, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		sc.Version = version
	}

	return sc, nil
}

// NewConsumer creates a consumer group from configuration.
func NewConsumer(cfg settings.Kafka, handler sarama.ConsumerGroupHandler, logger *zap.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrBrokersRequired
	}
	if len(cfg.Topics) == 0 {
		return nil, ErrTopicsRequired
	}
	if cfg.GroupID == "" {
		return nil, ErrGroupRequired
	}

	sc, err := NewConfig(cfg)
	if err != nil {
		return nil, err
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka: create consumer group: %w", err)
	}

	return newConsumer(group, cfg.Topics, handler, logger), nil
}

func newConsumer(group sarama.ConsumerGroup, topics []string, handler sarama.ConsumerGroupHandler, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		group:   group,
		topics:  topics,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes until ctx is cancelled or the group is closed.
// Consume returns on every rebalance, so it is called in a loop.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("kafka consumer error", zap.Error(err))
		}
	}()

	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("kafka: consume: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close releases the consumer group.
func (c *Consumer) Close() error {
	return c.group.Close()
}
