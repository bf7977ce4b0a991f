package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"imagemapper/internal/cms"
	"imagemapper/internal/content"
	"imagemapper/internal/logger"
	apperrors "imagemapper/pkg/errors"
	"imagemapper/pkg/models"
)

type mockMapper struct {
	mock.Mock
}

func (m *mockMapper) Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) (*content.Content, error) {
	args := m.Called(ctx, record, publishReference, lastModified)
	c, _ := args.Get(0).(*content.Content)
	return c, args.Error(1)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, topic string, msg models.Message) error {
	return m.Called(ctx, topic, msg).Error(0)
}

func (m *mockProducer) Close() error { return nil }

func TestProducingMapper_PublishesOnce(t *testing.T) {
	record := &cms.Record{UUID: testUUID, Type: "Image"}
	now := time.Now()

	mapper := &mockMapper{}
	mapper.On("Map", mock.Anything, record, "tid_abc", now).Return(sampleContent(), nil)

	producer := &mockProducer{}
	producer.On("Publish", mock.Anything, "CmsPublicationEvents", mock.MatchedBy(func(m models.Message) bool {
		return m.Key == testUUID && m.TransactionID() == "tid_abc"
	})).Return(nil).Once()

	p := NewProducingMapper(mapper, NewEnvelopeBuilder(testSystemCode, testURIPrefix), producer, "CmsPublicationEvents", logger.NopLogger())

	assert.NoError(t, p.Map(context.Background(), record, "tid_abc", now))
	producer.AssertExpectations(t)
}

func TestProducingMapper_MapFailureSkipsPublish(t *testing.T) {
	record := &cms.Record{UUID: testUUID, Type: "article"}

	mapper := &mockMapper{}
	mapper.On("Map", mock.Anything, record, "tid", mock.Anything).Return(nil, apperrors.ErrUnsupportedContentType)
	producer := &mockProducer{}

	p := NewProducingMapper(mapper, NewEnvelopeBuilder(testSystemCode, testURIPrefix), producer, "out", logger.NopLogger())

	err := p.Map(context.Background(), record, "tid", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedContentType)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestProducingMapper_PublishFailure(t *testing.T) {
	record := &cms.Record{UUID: testUUID, Type: "Image"}

	mapper := &mockMapper{}
	mapper.On("Map", mock.Anything, record, "tid", mock.Anything).Return(sampleContent(), nil)
	producer := &mockProducer{}
	producer.On("Publish", mock.Anything, "out", mock.Anything).Return(apperrors.ErrPublish.WithCause(errors.New("broker down"))).Once()

	p := NewProducingMapper(mapper, NewEnvelopeBuilder(testSystemCode, testURIPrefix), producer, "out", logger.NopLogger())

	err := p.Map(context.Background(), record, "tid", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrPublish)
	producer.AssertExpectations(t)
}
