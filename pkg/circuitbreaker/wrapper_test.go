package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagemapper/internal/config"
)

func TestFromConfig(t *testing.T) {
	c := FromConfig("producer", config.CircuitBreakerConfig{
		MaxRequests:  5,
		Timeout:      time.Second,
		FailureRatio: 0.8,
		MinRequests:  10,
	})

	assert.Equal(t, "producer", c.Name)
	assert.Equal(t, uint32(5), c.MaxRequests)
	assert.Equal(t, time.Second, c.Timeout)
	assert.Equal(t, 60*time.Second, c.Interval)
	assert.False(t, c.ReadyToTrip(gobreaker.Counts{Requests: 9, TotalFailures: 9}))
	assert.True(t, c.ReadyToTrip(gobreaker.Counts{Requests: 10, TotalFailures: 8}))
}

func TestWrapper_OpensAfterFailures(t *testing.T) {
	w := NewWrapper(Config{
		Name:        "test-open",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: ratioTrip(2, 0.5),
	})

	boom := errors.New("write failed")
	for i := 0; i < 2; i++ {
		err := w.Execute(context.Background(), func() error { return boom })
		assert.ErrorIs(t, err, boom)
	}

	require.True(t, w.IsOpen())

	called := false
	err := w.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestWrapper_CancelledContext(t *testing.T) {
	w := NewWrapper(DefaultConfig("test-cancel"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Execute(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, w.State())
}
