// Package cms holds the inbound CMS record as delivered by the native publishing system.
package cms

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a snapshot of a CMS asset. Attributes, SystemAttributes and
// UsageTickets are raw XML fragments and may be empty or malformed.
type Record struct {
	UUID             string     `json:"uuid"`
	Type             string     `json:"type"`
	Value            []byte     `json:"value,omitempty"`
	Attributes       string     `json:"attributes,omitempty"`
	WorkflowStatus   string     `json:"workflowStatus,omitempty"`
	SystemAttributes string     `json:"systemAttributes,omitempty"`
	UsageTickets     string     `json:"usageTickets,omitempty"`
	LastModified     *time.Time `json:"lastModified,omitempty"`
}

// ParseRecord decodes a JSON record. It fails on malformed JSON or when the
// identifier or declared type is missing.
func ParseRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode cms record: %w", err)
	}
	if r.UUID == "" {
		return nil, fmt.Errorf("cms record has no uuid")
	}
	if r.Type == "" {
		return nil, fmt.Errorf("cms record %s has no type", r.UUID)
	}
	return &r, nil
}

func (r *Record) HasValue() bool {
	return len(r.Value) > 0
}
