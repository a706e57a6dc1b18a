package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang-storefront/pkg/cache"
	"golang-storefront/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Relay carries signal names between instances that share the same persisted state.
type Relay interface {
	// Publish announces that the named signal fired on this instance.
	Publish(ctx context.Context, name string) error
	// Run calls deliver for every name published by another instance until ctx is done.
	Run(ctx context.Context, deliver func(name string)) error
}

// envelope is the wire form of a relayed signal. Origin lets an instance drop its own
// messages, which it has already delivered locally.
type envelope struct {
	Origin string `json:"origin"`
	Signal string `json:"signal"`
}

func decodeEnvelope(origin string, data []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false
	}
	if env.Origin == origin || env.Signal == "" {
		return "", false
	}
	return env.Signal, true
}

// RedisRelay relays signals over a Redis pub/sub channel.
type RedisRelay struct {
	cache   *cache.RedisCache
	channel string
	origin  string
	logger  *zap.Logger
}

func NewRedisRelay(c *cache.RedisCache, channel string, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		cache:   c,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

func (r *RedisRelay) Publish(ctx context.Context, name string) error {
	data, err := json.Marshal(envelope{Origin: r.origin, Signal: name})
	if err != nil {
		return err
	}
	if err := r.cache.Publish(ctx, r.channel, string(data)); err != nil {
		return fmt.Errorf("cache.Publish: %w", err)
	}
	return nil
}

func (r *RedisRelay) Run(ctx context.Context, deliver func(name string)) error {
	sub, err := r.cache.Subscribe(ctx, r.channel)
	if err != nil {
		return fmt.Errorf("cache.Subscribe: %w", err)
	}
	defer sub.Close()

	r.logger.Info("redis relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis relay channel closed")
			}
			if name, ok := decodeEnvelope(r.origin, []byte(msg.Payload)); ok {
				deliver(name)
			}
		}
	}
}

// KafkaRelay relays signals over a Kafka topic. Every instance reads the whole topic from
// the moment it starts, so no consumer group is used.
type KafkaRelay struct {
	producer *messaging.KafkaProducer
	consumer *messaging.KafkaConsumer
	topic    string
	origin   string
}

func NewKafkaRelay(producer *messaging.KafkaProducer, consumer *messaging.KafkaConsumer, topic string) *KafkaRelay {
	return &KafkaRelay{
		producer: producer,
		consumer: consumer,
		topic:    topic,
		origin:   uuid.NewString(),
	}
}

func (r *KafkaRelay) Publish(ctx context.Context, name string) error {
	if err := r.producer.SendMessage(ctx, r.topic, name, envelope{Origin: r.origin, Signal: name}); err != nil {
		return fmt.Errorf("producer.SendMessage: %w", err)
	}
	return nil
}

func (r *KafkaRelay) Run(ctx context.Context, deliver func(name string)) error {
	return r.consumer.ConsumeMessages(ctx, r.topic, "", func(value []byte) error {
		if name, ok := decodeEnvelope(r.origin, value); ok {
			deliver(name)
		}
		return nil
	})
}
