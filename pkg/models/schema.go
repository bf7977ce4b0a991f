package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateMessage checks the envelope fields every outbound message must carry.
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return &ValidationError{
			Field:   "message",
			Message: "message cannot be nil",
		}
	}

	if msg.ID == "" {
		return &ValidationError{
			Field:   "messageId",
			Message: "message ID is required",
		}
	}

	if msg.Type == "" {
		return &ValidationError{
			Field:   "messageType",
			Message: "message type is required",
		}
	}

	if msg.OriginSystemID == "" {
		return &ValidationError{
			Field:   "originSystemId",
			Message: "origin system ID is required",
		}
	}

	if msg.Timestamp.IsZero() {
		return &ValidationError{
			Field:   "messageTimestamp",
			Message: "message timestamp is required",
		}
	}

	return nil
}
