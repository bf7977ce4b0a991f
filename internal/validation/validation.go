// Package validation holds the identity and publishability gates applied before mapping.
package validation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"imagemapper/internal/cms"
	"imagemapper/internal/constants"
	"imagemapper/internal/logger"
	"imagemapper/pkg/cel"
	"imagemapper/pkg/errors"
)

const canonicalUUIDLength = 36

// ValidateUUID accepts only the canonical 8-4-4-4-12 form.
func ValidateUUID(id string) error {
	if len(id) != canonicalUUIDLength {
		return errors.ErrInvalidUUID.WithDetail("uuid", id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return errors.ErrInvalidUUID.WithCause(err).WithDetail("uuid", id)
	}
	return nil
}

type PublishingValidator struct {
	eval   *cel.Evaluator
	rules  []string
	logger logger.Logger
}

// NewPublishingValidator compiles the optional CEL rules up front so a bad
// rule fails startup rather than the first record.
func NewPublishingValidator(rules []string, log logger.Logger) (*PublishingValidator, error) {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return nil, err
	}
	for i, rule := range rules {
		if err := eval.ValidateRule(rule); err != nil {
			return nil, fmt.Errorf("publishing rule %d: %w", i, err)
		}
	}
	return &PublishingValidator{eval: eval, rules: rules, logger: log}, nil
}

// IsEligibleForPublishing reports whether the record can produce meaningful
// content: an image needs a binary payload, and every configured rule must hold.
func (v *PublishingValidator) IsEligibleForPublishing(ctx context.Context, record *cms.Record) bool {
	if record.Type == constants.ContentTypeImage && !record.HasValue() {
		v.logger.InfowCtx(ctx, "Image has no binary payload", "uuid", record.UUID)
		return false
	}

	vars := cel.RecordVars{
		UUID:           record.UUID,
		Type:           record.Type,
		WorkflowStatus: record.WorkflowStatus,
		ValueSize:      len(record.Value),
	}
	for _, rule := range v.rules {
		ok, err := v.eval.Evaluate(ctx, rule, vars)
		if err != nil {
			v.logger.WarnwCtx(ctx, "Publishing rule evaluation failed",
				"rule", rule,
				"error", err,
			)
			return false
		}
		if !ok {
			v.logger.InfowCtx(ctx, "Publishing rule rejected record", "rule", rule, "uuid", record.UUID)
			return false
		}
	}
	return true
}
