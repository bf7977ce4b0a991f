package models

import "time"

type MessageBuilder struct {
	message *Message
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		message: &Message{
			Headers: make(map[string]string),
		},
	}
}

func (b *MessageBuilder) WithID(id string) *MessageBuilder {
	b.message.ID = id
	return b
}

func (b *MessageBuilder) WithType(messageType string) *MessageBuilder {
	b.message.Type = messageType
	return b
}

func (b *MessageBuilder) WithTimestamp(timestamp time.Time) *MessageBuilder {
	b.message.Timestamp = timestamp
	return b
}

func (b *MessageBuilder) WithOriginSystemID(systemID string) *MessageBuilder {
	b.message.OriginSystemID = systemID
	return b
}

func (b *MessageBuilder) WithContentType(contentType string) *MessageBuilder {
	b.message.ContentType = contentType
	return b
}

func (b *MessageBuilder) WithBody(body string) *MessageBuilder {
	b.message.Body = body
	return b
}

func (b *MessageBuilder) WithHeader(name, value string) *MessageBuilder {
	b.message.Headers[name] = value
	return b
}

func (b *MessageBuilder) WithTransactionID(transactionID string) *MessageBuilder {
	return b.WithHeader(HeaderTransactionID, transactionID)
}

func (b *MessageBuilder) WithKey(key string) *MessageBuilder {
	b.message.Key = key
	return b
}

func (b *MessageBuilder) Build() *Message {
	if b.message.Timestamp.IsZero() {
		b.message.Timestamp = time.Now()
	}
	return b.message
}
