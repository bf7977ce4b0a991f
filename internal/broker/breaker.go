package broker

import (
	"context"

	"github.com/sony/gobreaker"

	"imagemapper/internal/logger"
	"imagemapper/pkg/circuitbreaker"
	"imagemapper/pkg/errors"
	"imagemapper/pkg/models"
)

// BreakerProducer stops calling the wrapped producer while the broker keeps failing.
type BreakerProducer struct {
	next   Producer
	cb     *circuitbreaker.Wrapper
	logger logger.Logger
}

func NewBreakerProducer(next Producer, cfg circuitbreaker.Config, log logger.Logger) *BreakerProducer {
	userHook := cfg.OnStateChange
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warnw("Circuit breaker state changed",
			"name", name,
			"from", from.String(),
			"to", to.String(),
		)
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	return &BreakerProducer{
		next:   next,
		cb:     circuitbreaker.NewWrapper(cfg),
		logger: log,
	}
}

func (p *BreakerProducer) Publish(ctx context.Context, topic string, msg models.Message) error {
	err := p.cb.Execute(ctx, func() error {
		return p.next.Publish(ctx, topic, msg)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return errors.ErrServiceUnavailable.WithCause(err)
	}
	return err
}

func (p *BreakerProducer) Close() error {
	return p.next.Close()
}
