package notify

import "time"

const (
	KindConnectionRequest = "connection_request"
	KindHouseholdAdded    = "household_added"
	KindDocumentShared    = "document_shared"
)

// Event is the fire-and-forget record the core hands to the delivery layer.
// It is produced after a write transaction commits and never consumed here.
type Event struct {
	ID           string         `json:"id"`
	TargetUserID string         `json:"target_user_id"`
	Kind         string         `json:"kind"`
	Payload      map[string]any `json:"payload,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
