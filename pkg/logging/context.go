package logging

import (
	"context"
)

type ctxKey string

const (
	TransactionIDKey ctxKey = "transaction_id"
	MessageIDKey     ctxKey = "message_id"
	UUIDKey          ctxKey = "uuid"
	ServiceNameKey   ctxKey = "service_name"
)

func WithTransactionID(ctx context.Context, transactionID string) context.Context {
	return context.WithValue(ctx, TransactionIDKey, transactionID)
}

func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, MessageIDKey, messageID)
}

func WithUUID(ctx context.Context, uuid string) context.Context {
	return context.WithValue(ctx, UUIDKey, uuid)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func value(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func GetTransactionID(ctx context.Context) string {
	return value(ctx, TransactionIDKey)
}

func GetMessageID(ctx context.Context) string {
	return value(ctx, MessageIDKey)
}

func GetUUID(ctx context.Context) string {
	return value(ctx, UUIDKey)
}

func GetServiceName(ctx context.Context) string {
	return value(ctx, ServiceNameKey)
}

// GetLogFields returns the correlation fields stored in ctx as zap key/value pairs.
func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)

	for _, key := range []ctxKey{TransactionIDKey, MessageIDKey, UUIDKey, ServiceNameKey} {
		if v := value(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}

	return fields
}
