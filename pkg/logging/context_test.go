package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetLogFields(ctx))

	ctx = WithTransactionID(ctx, "tid_123")
	ctx = WithUUID(ctx, "d7625378-d4cd-11e2-bce1-002128161462")

	assert.Equal(t, []interface{}{
		"transaction_id", "tid_123",
		"uuid", "d7625378-d4cd-11e2-bce1-002128161462",
	}, GetLogFields(ctx))
	assert.Equal(t, "tid_123", GetTransactionID(ctx))
	assert.Empty(t, GetMessageID(ctx))
}
