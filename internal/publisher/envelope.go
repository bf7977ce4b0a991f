// Package publisher wraps canonical content into outbound publication events.
package publisher

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"imagemapper/internal/constants"
	"imagemapper/internal/content"
	"imagemapper/pkg/errors"
	"imagemapper/pkg/models"
)

type envelopeBody struct {
	ContentURI   string           `json:"contentUri"`
	UUID         string           `json:"uuid"`
	RelativeURL  string           `json:"relativeUrl"`
	Destination  string           `json:"destination"`
	Payload      *content.Content `json:"payload"`
	LastModified string           `json:"lastModified"`
}

type EnvelopeBuilder struct {
	systemCode       string
	contentURIPrefix string
	now              func() time.Time
	marshal          func(v interface{}) ([]byte, error)
}

func NewEnvelopeBuilder(systemCode, contentURIPrefix string) *EnvelopeBuilder {
	return &EnvelopeBuilder{
		systemCode:       systemCode,
		contentURIPrefix: strings.TrimSuffix(contentURIPrefix, "/"),
		now:              time.Now,
		marshal:          json.Marshal,
	}
}

// Build produces a cms-content-published message keyed by the content uuid.
// A body that cannot be encoded is an ErrTransformation and is never retried.
func (b *EnvelopeBuilder) Build(c *content.Content) (*models.Message, error) {
	contentURI := b.contentURIPrefix + "/" + c.UUID

	relative, err := relativeURL(contentURI)
	if err != nil {
		return nil, errors.ErrTransformation.WithCause(err).AsFatal()
	}

	body, err := b.marshal(envelopeBody{
		ContentURI:   contentURI,
		UUID:         c.UUID,
		RelativeURL:  relative,
		Destination:  constants.EnvelopeDestination,
		Payload:      c,
		LastModified: c.LastModified.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.ErrTransformation.WithCause(err).AsFatal()
	}

	msg := models.NewMessageBuilder().
		WithID(uuid.NewString()).
		WithType(models.MessageTypeContentPublished).
		WithTimestamp(b.now().UTC()).
		WithOriginSystemID(b.systemCode).
		WithContentType(models.ContentTypeJSON).
		WithTransactionID(c.PublishReference).
		WithKey(c.UUID).
		WithBody(string(body)).
		Build()

	if err := models.ValidateMessage(msg); err != nil {
		return nil, errors.ErrTransformation.WithCause(err).AsFatal()
	}
	return msg, nil
}

func relativeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse content uri: %w", err)
	}
	if u.RawQuery == "" {
		return u.EscapedPath(), nil
	}
	return u.EscapedPath() + "?" + u.RawQuery, nil
}
