package publisher

import (
	"context"
	"time"

	"imagemapper/internal/broker"
	"imagemapper/internal/cms"
	"imagemapper/internal/content"
	"imagemapper/internal/logger"
	"imagemapper/pkg/tracing"
)

type ContentMapper interface {
	Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) (*content.Content, error)
}

// ProducingMapper maps a record and sends the resulting envelope once.
type ProducingMapper struct {
	mapper   ContentMapper
	builder  *EnvelopeBuilder
	producer broker.Producer
	topic    string
	logger   logger.Logger
}

func NewProducingMapper(m ContentMapper, b *EnvelopeBuilder, p broker.Producer, topic string, log logger.Logger) *ProducingMapper {
	return &ProducingMapper{
		mapper:   m,
		builder:  b,
		producer: p,
		topic:    topic,
		logger:   log,
	}
}

func (p *ProducingMapper) Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) (err error) {
	ctx, span := tracing.StartMappingSpan(ctx, record.UUID, publishReference)
	defer func() { tracing.EndSpan(span, err) }()

	c, err := p.mapper.Map(ctx, record, publishReference, lastModified)
	if err != nil {
		return err
	}

	msg, err := p.builder.Build(c)
	if err != nil {
		return err
	}

	if err := p.producer.Publish(ctx, p.topic, *msg); err != nil {
		return err
	}

	p.logger.InfowCtx(ctx, "Published content",
		"uuid", c.UUID,
		"type", c.Type,
		"message_id", msg.ID,
		"topic", p.topic,
	)
	return nil
}
