package config

import (
	"fmt"
	"net/url"
	"regexp"

	"imagemapper/pkg/cel"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateServer(cfg.Server); err != nil {
		errors = append(errors, err)
	}

	if err := validateBroker(cfg.Broker); err != nil {
		errors = append(errors, err)
	}

	if err := validateMapper(cfg.Mapper); err != nil {
		errors = append(errors, err)
	}

	if err := validatePublishing(cfg.Publishing); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeout <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeout <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		}
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0) {
		return &ValidationError{
			Field:   "server.rate_limit",
			Message: "rps and burst must be positive when rate limiting is enabled",
		}
	}

	return nil
}

func validateBroker(cfg BrokerConfig) error {
	switch cfg.Type {
	case "kafka":
		return validateKafka(cfg.Kafka)
	case "":
		return &ValidationError{
			Field:   "broker.type",
			Message: "broker type is required",
		}
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka)", cfg.Type),
		}
	}
}

func validateKafka(cfg KafkaConfig) error {
	if len(cfg.Brokers) == 0 {
		return &ValidationError{
			Field:   "broker.kafka.brokers",
			Message: "at least one Kafka broker is required",
		}
	}

	for i, broker := range cfg.Brokers {
		if broker == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
				Message: "broker address cannot be empty",
			}
		}
	}

	if cfg.GroupID == "" {
		return &ValidationError{
			Field:   "broker.kafka.group_id",
			Message: "Kafka consumer group ID is required",
		}
	}

	if cfg.InputTopic == "" || cfg.OutputTopic == "" {
		return &ValidationError{
			Field:   "broker.kafka.input_topic",
			Message: "input and output topics are required",
		}
	}

	if cfg.Retry.MaxAttempts < 0 {
		return &ValidationError{
			Field:   "broker.kafka.retry.max_attempts",
			Message: "max_attempts must be non-negative",
		}
	}

	if cfg.Retry.MaxInterval > 0 && cfg.Retry.InitialInterval > 0 && cfg.Retry.MaxInterval < cfg.Retry.InitialInterval {
		return &ValidationError{
			Field:   "broker.kafka.retry.max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		}
	}

	if cfg.Retry.Multiplier <= 0 {
		return &ValidationError{
			Field:   "broker.kafka.retry.multiplier",
			Message: "multiplier must be positive",
		}
	}

	return nil
}

func validateMapper(cfg MapperConfig) error {
	if cfg.SystemCode == "" {
		return &ValidationError{
			Field:   "mapper.system_code",
			Message: "system code is required",
		}
	}

	if cfg.ExternalBinaryURLBasePath == "" {
		return &ValidationError{
			Field:   "mapper.external_binary_url_base_path",
			Message: "external binary URL base path is required",
		}
	}

	if _, err := url.Parse(cfg.ContentURIPrefix); err != nil || cfg.ContentURIPrefix == "" {
		return &ValidationError{
			Field:   "mapper.content_uri_prefix",
			Message: "content URI prefix must be a valid URL",
		}
	}

	for i, pattern := range cfg.ExternalBinaryURLWhitelist {
		if _, err := regexp.Compile(pattern); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("mapper.external_binary_url_whitelist[%d]", i),
				Message: fmt.Sprintf("invalid regular expression %q: %v", pattern, err),
			}
		}
	}

	return nil
}

func validatePublishing(cfg PublishingConfig) error {
	if len(cfg.Rules) == 0 {
		return nil
	}

	eval, err := cel.NewEvaluator()
	if err != nil {
		return err
	}

	for i, rule := range cfg.Rules {
		if err := eval.ValidateRule(rule); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("publishing.rules[%d]", i),
				Message: err.Error(),
			}
		}
	}

	return nil
}
