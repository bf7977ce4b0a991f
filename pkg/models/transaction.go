package models

import (
	"strings"

	"github.com/google/uuid"
)

const transactionIDPrefix = "tid_"

// NewTransactionID generates a correlation id in the "tid_<random>" form used
// when an inbound request or event carries none.
func NewTransactionID() string {
	return transactionIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
