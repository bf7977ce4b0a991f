package models

import "time"

// Message is the native publication event exchanged over Kafka. Body carries the
// JSON document produced by the sending system; Key selects the Kafka partition.
type Message struct {
	ID             string            `json:"messageId"`
	Type           string            `json:"messageType"`
	Timestamp      time.Time         `json:"messageTimestamp"`
	OriginSystemID string            `json:"originSystemId"`
	ContentType    string            `json:"contentType"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           string            `json:"body"`
	Key            string            `json:"-"`
}

const (
	HeaderTransactionID = "X-Request-Id"
	HeaderMessageType   = "Message-Type"
	HeaderOriginSystem  = "Origin-System-Id"
)

const (
	MessageTypeContentPublished = "cms-content-published"
	ContentTypeJSON             = "application/json"
)

func (m *Message) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[name]
}

func (m *Message) SetHeader(name, value string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[name] = value
}

// TransactionID returns the correlation id carried by the message, if any.
func (m *Message) TransactionID() string {
	return m.Header(HeaderTransactionID)
}
