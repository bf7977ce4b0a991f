package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessage(t *testing.T) {
	valid := func() *Message {
		return NewMessageBuilder().
			WithID("0f4a6c1e-1b2c-4d5e-8f90-123456789abc").
			WithType(MessageTypeContentPublished).
			WithOriginSystemID("http://cmdb.ft.com/systems/methode-web-pub").
			WithTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)).
			Build()
	}

	tests := []struct {
		name  string
		msg   *Message
		field string
	}{
		{"valid", valid(), ""},
		{"nil", nil, "message"},
		{"no id", func() *Message { m := valid(); m.ID = ""; return m }(), "messageId"},
		{"no type", func() *Message { m := valid(); m.Type = ""; return m }(), "messageType"},
		{"no origin", func() *Message { m := valid(); m.OriginSystemID = ""; return m }(), "originSystemId"},
		{"no timestamp", func() *Message { m := valid(); m.Timestamp = time.Time{}; return m }(), "messageTimestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestMessageBuilder(t *testing.T) {
	msg := NewMessageBuilder().
		WithTransactionID("tid_abc").
		WithKey("bb5a1f1e-4b5a-11e7-b4d5-5a17b4f1c0c9").
		WithBody(`{}`).
		Build()

	assert.Equal(t, "tid_abc", msg.TransactionID())
	assert.Equal(t, "bb5a1f1e-4b5a-11e7-b4d5-5a17b4f1c0c9", msg.Key)
	assert.False(t, msg.Timestamp.IsZero())
}
