// Package content defines the canonical image representation published downstream.
package content

import "time"

type Type string

const (
	TypeImage   Type = "Image"
	TypeGraphic Type = "Graphic"
)

func (t Type) String() string {
	return string(t)
}

type Identifier struct {
	Authority       string `json:"authority"`
	IdentifierValue string `json:"identifierValue"`
}

type Copyright struct {
	Notice string `json:"notice"`
}

type MasterSource struct {
	Authority  string `json:"authority"`
	Identifier string `json:"identifier"`
}

// Content is built once per mapping call. Fields that could not be derived
// from the record are nil and omitted from JSON.
type Content struct {
	UUID               string        `json:"uuid"`
	Type               Type          `json:"type"`
	Identifiers        []Identifier  `json:"identifiers,omitempty"`
	Title              *string       `json:"title,omitempty"`
	Description        *string       `json:"description,omitempty"`
	MediaType          string        `json:"mediaType"`
	PixelWidth         *int          `json:"pixelWidth,omitempty"`
	PixelHeight        *int          `json:"pixelHeight,omitempty"`
	InternalBinaryURL  *string       `json:"internalBinaryUrl,omitempty"`
	ExternalBinaryURL  string        `json:"externalBinaryUrl"`
	PublishedDate      *time.Time    `json:"publishedDate,omitempty"`
	FirstPublishedDate *time.Time    `json:"firstPublishedDate,omitempty"`
	PublishReference   string        `json:"publishReference"`
	LastModified       time.Time     `json:"lastModified"`
	CanBeDistributed   *string       `json:"canBeDistributed,omitempty"`
	CanBeSyndicated    *string       `json:"canBeSyndicated,omitempty"`
	RightsGroup        *string       `json:"rightsGroup,omitempty"`
	Copyright          *Copyright    `json:"copyright,omitempty"`
	MasterSource       *MasterSource `json:"masterSource,omitempty"`
}
