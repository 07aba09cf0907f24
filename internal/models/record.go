package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TowIDPrefix is the naming convention for tow records in the store.
// Listing filters on it so unrelated rows in the same collection are
// ignored.
const TowIDPrefix = "tow-"

// TowRecord is one row of the record store: an opaque JSON payload keyed
// by tow id, with a monotonic revision used for conditional writes.
type TowRecord struct {
	ID        string `bson:"_id" json:"id"`
	Payload   string `bson:"payload" json:"payload"`
	Revision  int64  `bson:"revision" json:"revision"`
	UpdatedAt int64  `bson:"updated_at" json:"updated_at"`
}

// IsTowRecord reports whether an id follows the tow naming convention.
func IsTowRecord(id string) bool {
	return strings.HasPrefix(id, TowIDPrefix)
}

// DecodePayload parses the stored JSON into a DashboardPayload.
func (r *TowRecord) DecodePayload() (*DashboardPayload, error) {
	var payload DashboardPayload
	if err := json.Unmarshal([]byte(r.Payload), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload for %s: %w", r.ID, err)
	}
	return &payload, nil
}

// EncodePayload re-serializes the payload into the record.
func (r *TowRecord) EncodePayload(payload *DashboardPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", r.ID, err)
	}
	r.Payload = string(data)
	return nil
}

// TowSummary is the listing projection of a tow record.
type TowSummary struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Tone      StatusTone `json:"statusTone"`
	Vehicle   string     `json:"vehicle"`
	Location  string     `json:"location"`
	TicketID  string     `json:"ticketId"`
	Customer  string     `json:"customer"`
	UpdatedAt int64      `json:"updatedAt"`
}
