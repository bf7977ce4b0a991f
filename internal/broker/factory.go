package broker

import (
	"fmt"

	"imagemapper/internal/config"
	"imagemapper/internal/logger"
	"imagemapper/pkg/circuitbreaker"
)

// NewProducer builds the configured producer, wrapped in a circuit breaker
// when circuit_breaker.enabled is set.
func NewProducer(cfg *config.Config, log logger.Logger) (Producer, error) {
	var producer Producer
	switch cfg.Broker.Type {
	case "kafka":
		producer = NewKafkaProducer(cfg.Broker.Kafka, log)
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Broker.Type)
	}

	if cfg.CircuitBreaker.Enabled {
		producer = NewBreakerProducer(producer, circuitbreaker.FromConfig("kafka-producer", cfg.CircuitBreaker), log)
	}

	return producer, nil
}

func NewConsumer(cfg config.BrokerConfig, log logger.Logger) (Consumer, error) {
	switch cfg.Type {
	case "kafka":
		return NewKafkaConsumer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}
