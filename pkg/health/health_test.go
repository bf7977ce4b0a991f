package health

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                    { return s.name }
func (s stubChecker) Check(ctx context.Context) error { return s.err }

func TestCheckerRegistry(t *testing.T) {
	oneDown := []Checker{
		stubChecker{name: "a"},
		stubChecker{name: "kafka", err: errors.New("connection refused")},
	}

	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{name: "no checkers", want: StatusHealthy},
		{name: "all healthy", checkers: []Checker{stubChecker{name: "kafka"}}, want: StatusHealthy},
		{name: "one unhealthy", checkers: oneDown, want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCheckerRegistry()
			for _, c := range tt.checkers {
				r.Register(c)
			}

			h := r.Check(context.Background())
			assert.Equal(t, tt.want, h.Status)
			assert.Len(t, h.Checks, len(tt.checkers))
		})
	}
}

func TestKafkaChecker_NoBrokers(t *testing.T) {
	err := NewKafkaChecker(nil).Check(context.Background())
	assert.Error(t, err)
}

func TestKafkaChecker_DialFailure(t *testing.T) {
	c := NewKafkaChecker([]string{"kafka-1:9092", "kafka-2:9092"})
	dialed := 0
	c.dial = func(ctx context.Context, network, address string) (*kafka.Conn, error) {
		dialed++
		return nil, errors.New("connection refused")
	}

	err := c.Check(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 2, dialed)
}
