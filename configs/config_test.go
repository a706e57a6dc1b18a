package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"KAFKA_BROKERS", "KAFKA_ORDER_TOPIC", "KAFKA_CART_TOPIC", "CART_BACKEND", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	config := LoadConfig()

	assert.Equal(t, KafkaConfig{
		Brokers:    []string{"localhost:9092"},
		OrderTopic: "order-events",
		CartTopic:  "cart-signals",
	}, config.Kafka)
	assert.Equal(t, "memory", config.Cart.Backend)
	assert.Equal(t, float64(20), config.RateLimit.RPS)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("KAFKA_CART_TOPIC", "signals")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	config := LoadConfig()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.Kafka.Brokers)
	assert.Equal(t, "signals", config.Kafka.CartTopic)
	assert.Equal(t, 3*time.Second, config.Backend.Timeout)
	assert.Equal(t, 0, config.Redis.DB)
	assert.Equal(t, 2.5, config.RateLimit.RPS)
}
