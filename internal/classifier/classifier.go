// Package classifier decides whether a CMS image is a photographic Image or a Graphic.
package classifier

import (
	"context"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"imagemapper/internal/cms"
	"imagemapper/internal/content"
	"imagemapper/internal/extraction"
	"imagemapper/internal/logger"
	"imagemapper/pkg/metrics"
)

const (
	PNGMediaType = "image/png"

	graphicValue  = "graphic"
	typeMarkerKey = "ftimagetype"
)

type Input struct {
	Record    *cms.Record
	MediaType string
}

// Stage is one rule in the classification chain. decided reports whether the
// stage produced a result; later stages run only when it did not.
type Stage interface {
	Name() string
	Classify(ctx context.Context, in Input) (t content.Type, decided bool)
}

type Classifier struct {
	stages []Stage
	logger logger.Logger
}

// New returns the standard chain: media type gate, CMS metadata, embedded PNG text.
func New(log logger.Logger) *Classifier {
	return NewWithStages(log,
		MediaTypeStage{},
		&MetadataStage{logger: log},
		&PNGTextStage{logger: log},
	)
}

func NewWithStages(log logger.Logger, stages ...Stage) *Classifier {
	return &Classifier{stages: stages, logger: log}
}

// Classify never fails; without a positive signal the answer is Image.
func (c *Classifier) Classify(ctx context.Context, in Input) content.Type {
	for _, stage := range c.stages {
		if t, ok := stage.Classify(ctx, in); ok {
			metrics.IncClassification(t.String(), stage.Name())
			c.logger.DebugwCtx(ctx, "Classified content", "type", t, "stage", stage.Name())
			return t
		}
	}
	metrics.IncClassification(content.TypeImage.String(), "default")
	return content.TypeImage
}

// MediaTypeStage settles every non-PNG asset as Image.
type MediaTypeStage struct{}

func (MediaTypeStage) Name() string { return "media-type" }

func (MediaTypeStage) Classify(_ context.Context, in Input) (content.Type, bool) {
	if in.MediaType != PNGMediaType {
		return content.TypeImage, true
	}
	return "", false
}

// MetadataStage trusts the CMS-authored image type when it says graphic.
type MetadataStage struct {
	logger logger.Logger
}

func (*MetadataStage) Name() string { return "cms-metadata" }

func (s *MetadataStage) Classify(ctx context.Context, in Input) (content.Type, bool) {
	imageType, ok, err := extraction.ImageType(in.Record.Attributes)
	if err != nil {
		s.logger.WarnwCtx(ctx, "Unable to read image type from CMS attributes", "error", err)
		return "", false
	}
	if ok && strings.EqualFold(imageType, graphicValue) {
		return content.TypeGraphic, true
	}
	return "", false
}

// PNGTextStage looks for an FTImageType=graphic marker in the first tEXt chunk.
type PNGTextStage struct {
	logger logger.Logger
}

func (*PNGTextStage) Name() string { return "png-text" }

func (s *PNGTextStage) Classify(ctx context.Context, in Input) (content.Type, bool) {
	chunk, found, err := firstTextChunk(in.Record.Value)
	if err != nil {
		s.logger.WarnwCtx(ctx, "Unable to read PNG chunk stream", "error", err)
		return "", false
	}
	if !found {
		s.logger.DebugwCtx(ctx, "PNG has no text chunk")
		return "", false
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(chunk)
	if err != nil {
		s.logger.WarnwCtx(ctx, "Unable to decode PNG text chunk", "error", err)
		return "", false
	}

	text := strings.ToLower(string(decoded))
	if strings.Contains(text, typeMarkerKey) && strings.Contains(text, graphicValue) {
		return content.TypeGraphic, true
	}
	return "", false
}
