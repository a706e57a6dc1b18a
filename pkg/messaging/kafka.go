package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaProducer struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

type KafkaConsumer struct {
	brokers []string
	logger  *zap.Logger

	mu      sync.Mutex
	readers map[string]*kafka.Reader
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func NewKafkaConsumer(brokers []string, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		logger:  logger,
		readers: make(map[string]*kafka.Reader),
	}
}

func (kp *KafkaProducer) GetWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kp.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(ctx context.Context, topic string, key string, value interface{}) error {
	writer := kp.GetWriter(topic)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return writer.WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	var errs []error
	for _, writer := range kp.writers {
		errs = append(errs, writer.Close())
	}
	return errors.Join(errs...)
}

// GetReader returns the reader for topic. An empty groupID yields a partition reader that
// starts at the newest offset, which suits fan-out where every instance sees every message.
func (kc *KafkaConsumer) GetReader(topic, groupID string) *kafka.Reader {
	kc.mu.Lock()
	defer kc.mu.Unlock()

	key := topic + "/" + groupID
	if reader, exists := kc.readers[key]; exists {
		return reader
	}

	cfg := kafka.ReaderConfig{
		Brokers:  kc.brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
		MaxWait:  500 * time.Millisecond,
	}
	if groupID != "" {
		cfg.GroupID = groupID
	}

	reader := kafka.NewReader(cfg)
	if groupID == "" {
		reader.SetOffset(kafka.LastOffset)
	}
	kc.readers[key] = reader
	return reader
}

// ConsumeMessages hands every message value to handler until ctx is done. Handler errors
// are logged and do not stop consumption.
func (kc *KafkaConsumer) ConsumeMessages(ctx context.Context, topic, groupID string, handler func([]byte) error) error {
	reader := kc.GetReader(topic, groupID)

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			kc.logger.Warn("error reading message", zap.String("topic", topic), zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handler(message.Value); err != nil {
			kc.logger.Warn("error handling message", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	kc.mu.Lock()
	defer kc.mu.Unlock()

	var errs []error
	for _, reader := range kc.readers {
		errs = append(errs, reader.Close())
	}
	return errors.Join(errs...)
}

// Event types for async processing
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id,omitempty"`
	UserID    string      `json:"user_id"`
	Total     string      `json:"total"`
	Items     int         `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

const (
	OrderPlaced = "order_placed"
)
