// Package mapper turns a CMS image record into canonical content.
package mapper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"imagemapper/internal/classifier"
	"imagemapper/internal/cms"
	"imagemapper/internal/config"
	"imagemapper/internal/constants"
	"imagemapper/internal/content"
	"imagemapper/internal/extraction"
	"imagemapper/internal/logger"
	"imagemapper/pkg/errors"
	"imagemapper/pkg/metrics"
)

const distributionVerify = "verify"

var syndicationValues = map[string]string{
	"yes":                    "yes",
	"no":                     "no",
	"verify":                 "verify",
	"withcontributorpayment": "withContributorPayment",
}

type Mapper struct {
	classifier *classifier.Classifier
	extract    func(ctx context.Context, record *cms.Record) extraction.Fields
	whitelist  []*regexp.Regexp
	basePath   string
	authority  string
	binaryHost string
	binaryPath string
	logger     logger.Logger
}

func New(cfg config.MapperConfig, log logger.Logger) (*Mapper, error) {
	whitelist, err := CompileWhitelist(cfg.ExternalBinaryURLWhitelist)
	if err != nil {
		return nil, err
	}

	authority := cfg.IdentifierAuthority
	if authority == "" {
		authority = constants.DefaultIdentifierAuthority
	}

	return &Mapper{
		classifier: classifier.New(log),
		extract:    extraction.NewExtractor(log).Extract,
		whitelist:  whitelist,
		basePath:   cfg.ExternalBinaryURLBasePath,
		authority:  authority,
		binaryHost: cfg.BinaryTransformer.HostAddress,
		binaryPath: cfg.BinaryTransformer.URLAddress,
		logger:     log,
	}, nil
}

// CompileWhitelist compiles the external binary URL allow-list. Each pattern
// must match the whole URL.
func CompileWhitelist(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("invalid external binary url pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Map builds content from record. A declared type other than Image is the only
// expected failure; anything unexpected surfaces as ErrTransformation.
func (m *Mapper) Map(ctx context.Context, record *cms.Record, publishReference string, lastModified time.Time) (c *content.Content, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var uuid string
			if record != nil {
				uuid = record.UUID
			}
			m.logger.ErrorwCtx(ctx, "Panic recovered while mapping content", "uuid", uuid, "panic", r)
			c, err = nil, errors.RecoverPanicAs(r, errors.ErrTransformation)
		}
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.ObserveMappingDuration(time.Since(start), status)
	}()

	if record.Type != constants.ContentTypeImage {
		return nil, errors.ErrUnsupportedContentType.
			WithMessage(fmt.Sprintf("%s is not an %s.", record.UUID, constants.ContentTypeImage)).
			WithDetail("uuid", record.UUID)
	}

	fields := m.extract(ctx, record)

	c = &content.Content{
		UUID:               record.UUID,
		Identifiers:        []content.Identifier{{Authority: m.authority, IdentifierValue: record.UUID}},
		Title:              fields.Title,
		Description:        fields.Description,
		MediaType:          fields.MediaType,
		PixelWidth:         fields.PixelWidth,
		PixelHeight:        fields.PixelHeight,
		PublishedDate:      fields.PublishedDate,
		FirstPublishedDate: fields.FirstPublishedDate,
		Copyright:          fields.Copyright,
		RightsGroup:        fields.RightsGroup,
		MasterSource:       fields.MasterSource,
		PublishReference:   publishReference,
		LastModified:       lastModified,
	}

	c.Type = m.classifier.Classify(ctx, classifier.Input{Record: record, MediaType: fields.MediaType})
	c.ExternalBinaryURL = m.externalBinaryURL(ctx, record.UUID, fields.ExternalURL)
	c.InternalBinaryURL = m.internalBinaryURL(record.UUID)

	distribution := distributionVerify
	c.CanBeDistributed = &distribution
	if fields.Syndication != nil {
		if v, ok := syndicationValues[strings.ToLower(*fields.Syndication)]; ok {
			c.CanBeSyndicated = &v
		}
	}

	return c, nil
}

func (m *Mapper) externalBinaryURL(ctx context.Context, uuid string, declared *string) string {
	if declared != nil {
		for _, re := range m.whitelist {
			if re.MatchString(*declared) {
				return *declared
			}
		}
		m.logger.DebugwCtx(ctx, "External URL not allow-listed", "url", *declared)
	}
	return m.basePath + uuid
}

func (m *Mapper) internalBinaryURL(uuid string) *string {
	if m.binaryHost == "" || m.binaryPath == "" {
		return nil
	}
	u := "http://" + m.binaryHost + fmt.Sprintf(m.binaryPath, uuid)
	return &u
}
