package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"imagemapper/internal/logger"
	"imagemapper/pkg/circuitbreaker"
	apperrors "imagemapper/pkg/errors"
	"imagemapper/pkg/models"
)

func TestBreakerProducer_OpensOnRepeatedFailures(t *testing.T) {
	next := &mockProducer{}
	next.On("Publish", mock.Anything, "out", mock.Anything).Return(errors.New("broker down")).Times(2)

	cfg := circuitbreaker.DefaultConfig("test-producer")
	cfg.Timeout = time.Minute
	cfg.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 }
	p := NewBreakerProducer(next, cfg, logger.NopLogger())

	for i := 0; i < 2; i++ {
		err := p.Publish(context.Background(), "out", models.Message{ID: "m"})
		assert.EqualError(t, err, "broker down")
	}

	err := p.Publish(context.Background(), "out", models.Message{ID: "m"})
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	assert.True(t, apperrors.IsRetryable(err))
	next.AssertExpectations(t)
}

func TestBreakerProducer_PassesThroughSuccess(t *testing.T) {
	next := &mockProducer{}
	next.On("Publish", mock.Anything, "out", mock.Anything).Return(nil).Once()

	p := NewBreakerProducer(next, circuitbreaker.DefaultConfig("test-producer-ok"), logger.NopLogger())

	assert.NoError(t, p.Publish(context.Background(), "out", models.Message{ID: "m"}))
	next.AssertExpectations(t)
}
