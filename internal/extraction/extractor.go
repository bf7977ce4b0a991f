// Package extraction pulls typed fields out of the XML fragments carried by a CMS record.
// Every lookup is best effort: a missing node or unparsable value leaves the
// field unset and is logged, it never fails the record.
package extraction

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"imagemapper/internal/cms"
	"imagemapper/internal/content"
	"imagemapper/internal/logger"
	"imagemapper/pkg/metrics"
)

const (
	// DefaultMediaType applies when the system attributes name no file type.
	DefaultMediaType = "image/jpeg"

	ticketDateLayout = "20060102150405"
	copyrightPrefix  = "© "
)

// Fields is everything the mapper needs from the record's markup.
type Fields struct {
	Title              *string
	Description        *string
	MediaType          string
	PixelWidth         *int
	PixelHeight        *int
	PublishedDate      *time.Time
	FirstPublishedDate *time.Time
	Copyright          *content.Copyright
	ExternalURL        *string
	RightsGroup        *string
	Syndication        *string
	MasterSource       *content.MasterSource
}

type Extractor struct {
	logger logger.Logger
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Extract reads every field independently; a failure in one never blocks another.
func (e *Extractor) Extract(ctx context.Context, record *cms.Record) Fields {
	attrs := e.parse(ctx, "attributes", record.Attributes)
	props := e.parse(ctx, "system_attributes", record.SystemAttributes)
	tickets := e.parse(ctx, "usage_tickets", record.UsageTickets)

	f := Fields{
		Title:       text(attrs, titlePath),
		Description: text(attrs, descriptionPath),
		MediaType:   mediaType(text(props, fileTypePath)),
		ExternalURL: text(attrs, externalURLPath),
		RightsGroup: text(attrs, rightsGroupPath),
		Syndication: text(attrs, syndicationPath),
		Copyright:   copyright(attrs),
	}

	f.PixelWidth = e.integer(ctx, "width", props, widthPath)
	f.PixelHeight = e.integer(ctx, "height", props, heightPath)
	f.FirstPublishedDate, f.PublishedDate = e.publicationDates(ctx, tickets)

	authority, identifier := text(attrs, masterAuthorityPath), text(attrs, masterIDPath)
	if authority != nil && identifier != nil {
		f.MasterSource = &content.MasterSource{Authority: *authority, Identifier: *identifier}
	}

	return f
}

// ParseFragment parses one XML fragment. An empty fragment yields a nil node and no error.
func ParseFragment(fragment string) (*xmlquery.Node, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, nil
	}
	return xmlquery.Parse(strings.NewReader(fragment))
}

// ImageType returns the CMS-authored image type from the attributes fragment.
func ImageType(attributes string) (string, bool, error) {
	doc, err := ParseFragment(attributes)
	if err != nil {
		return "", false, err
	}
	v := text(doc, imageTypePath)
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *Extractor) parse(ctx context.Context, fragment, raw string) *xmlquery.Node {
	doc, err := ParseFragment(raw)
	if err != nil {
		metrics.IncExtractionFailure(fragment)
		e.logger.WarnwCtx(ctx, "Unable to parse CMS fragment",
			"fragment", fragment,
			"error", err,
		)
		return nil
	}
	return doc
}

func text(doc *xmlquery.Node, path *xpath.Expr) *string {
	if doc == nil {
		return nil
	}
	node := xmlquery.QuerySelector(doc, path)
	if node == nil {
		return nil
	}
	v := strings.TrimSpace(node.InnerText())
	if v == "" {
		return nil
	}
	return &v
}

func (e *Extractor) integer(ctx context.Context, field string, doc *xmlquery.Node, path *xpath.Expr) *int {
	raw := text(doc, path)
	if raw == nil {
		return nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		metrics.IncExtractionFailure(field)
		e.logger.WarnwCtx(ctx, "Unable to parse image dimension",
			"field", field,
			"value", *raw,
		)
		return nil
	}
	return &n
}

// publicationDates returns the earliest and latest web publication ticket dates.
func (e *Extractor) publicationDates(ctx context.Context, doc *xmlquery.Node) (first, last *time.Time) {
	if doc == nil {
		return nil, nil
	}
	for _, node := range xmlquery.QuerySelectorAll(doc, webPublicationDatesPath) {
		raw := strings.TrimSpace(node.InnerText())
		t, err := time.ParseInLocation(ticketDateLayout, raw, time.UTC)
		if err != nil {
			metrics.IncExtractionFailure("published_date")
			e.logger.WarnwCtx(ctx, "Unable to parse usage ticket date",
				"value", raw,
				"error", err,
			)
			continue
		}
		if first == nil || t.Before(*first) {
			first = &t
		}
		if last == nil || t.After(*last) {
			last = &t
		}
	}
	return first, last
}

func copyright(attrs *xmlquery.Node) *content.Copyright {
	source := text(attrs, onlineSourcePath)
	if source == nil {
		source = text(attrs, manualSourcePath)
	}
	if source == nil {
		return nil
	}
	return &content.Copyright{Notice: copyrightPrefix + *source}
}

func mediaType(fileType *string) string {
	if fileType == nil {
		return DefaultMediaType
	}
	subtype := strings.ToLower(*fileType)
	if subtype == "jpg" {
		subtype = "jpeg"
	}
	return fmt.Sprintf("image/%s", subtype)
}
