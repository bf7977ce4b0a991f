// Package ingest gates inbound CMS publication events and drives mapping and publishing.
package ingest

import (
	"context"
	"time"

	"imagemapper/internal/cms"
	"imagemapper/internal/logger"
	"imagemapper/internal/validation"
	"imagemapper/pkg/errors"
	"imagemapper/pkg/logging"
	"imagemapper/pkg/metrics"
	"imagemapper/pkg/models"
)

type Outcome string

const (
	OutcomeSkippedOrigin      Outcome = "skipped_origin"
	OutcomeSkippedInvalid     Outcome = "skipped_invalid"
	OutcomeSkippedIneligible  Outcome = "skipped_ineligible"
	OutcomeSkippedUnsupported Outcome = "skipped_unsupported"
	OutcomeFailed             Outcome = "failed"
	OutcomePublished          Outcome = "published"
)

type EligibilityChecker interface {
	IsEligibleForPublishing(ctx context.Context, record *cms.Record) bool
}

type RecordPublisher interface {
	Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) error
}

type Dispatcher struct {
	systemCode string
	validator  EligibilityChecker
	publisher  RecordPublisher
	logger     logger.Logger
}

func NewDispatcher(systemCode string, validator EligibilityChecker, publisher RecordPublisher, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		systemCode: systemCode,
		validator:  validator,
		publisher:  publisher,
		logger:     log,
	}
}

// Handle processes one inbound event. Only an unparsable body returns an
// error; every other path ends in a terminal outcome and the event counts as handled.
func (d *Dispatcher) Handle(ctx context.Context, msg models.Message) (Outcome, error) {
	if msg.OriginSystemID != d.systemCode {
		d.logger.DebugwCtx(ctx, "Skipping message from other system", "origin_system_id", msg.OriginSystemID)
		return d.done(OutcomeSkippedOrigin), nil
	}

	tid := msg.TransactionID()
	if tid == "" {
		tid = models.NewTransactionID()
	}
	ctx = logging.WithTransactionID(ctx, tid)

	record, err := cms.ParseRecord([]byte(msg.Body))
	if err != nil {
		d.logger.ErrorwCtx(ctx, "Unable to parse CMS content message", "error", err)
		d.done(OutcomeFailed)
		return OutcomeFailed, errors.ErrIngestion.WithCause(err)
	}
	ctx = logging.WithUUID(ctx, record.UUID)

	if err := validation.ValidateUUID(record.UUID); err != nil {
		d.logger.WarnwCtx(ctx, "Skipping message with invalid uuid", "error", err)
		return d.done(OutcomeSkippedInvalid), nil
	}

	if !d.validator.IsEligibleForPublishing(ctx, record) {
		d.logger.InfowCtx(ctx, "Skipping content not eligible for publishing")
		return d.done(OutcomeSkippedIneligible), nil
	}

	if err := d.publisher.Map(ctx, record, tid, msg.Timestamp); err != nil {
		switch {
		case errors.IsUnsupportedContentType(err):
			d.logger.InfowCtx(ctx, "Skipping unsupported content", "type", record.Type)
			return d.done(OutcomeSkippedUnsupported), nil
		case errors.IsClientError(err):
			d.logger.WarnwCtx(ctx, "Skipping content that cannot be mapped", "error", err)
			return d.done(OutcomeSkippedInvalid), nil
		default:
			d.logger.ErrorwCtx(ctx, "Failed to map and publish content", "error", err)
			return d.done(OutcomeFailed), nil
		}
	}

	return d.done(OutcomePublished), nil
}

// HandleMessage adapts Handle to broker.HandlerFunc.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg models.Message) error {
	_, err := d.Handle(ctx, msg)
	return err
}

func (d *Dispatcher) done(o Outcome) Outcome {
	metrics.IncMessages(string(o))
	return o
}
