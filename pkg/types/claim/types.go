// Package claim defines the wire types of the claims intake API. They are
// shared by the service and by pkg/client.
package claim

import "time"

// ClaimType is the outcome of complexity classification.
type ClaimType string

const (
	TypeSimple  ClaimType = "simple"
	TypeComplex ClaimType = "complex"
)

// IsValid reports whether t is one of the known claim types.
func (t ClaimType) IsValid() bool {
	return t == TypeSimple || t == TypeComplex
}

// Routing status values. Complex claims carry their priority in the status
// text, see QueuedStatus.
const (
	StatusAutoProcessed = "auto-processed"
	queuedStatusFormat  = "queued for human review (priority %d)"
)

// AutoProcessedMessage is the confirmation attached to simple claims.
const AutoProcessedMessage = "Claim processed automatically."

// Fields holds the three extracted claim fields. A nil pointer is the absent
// marker and marshals as JSON null. Values are raw entity text, unvalidated.
type Fields struct {
	ClaimantName *string `json:"claimant_name"`
	ClaimDate    *string `json:"claim_date"`
	ClaimAmount  *string `json:"claim_amount"`
}

// PipelineResult is the response for one successfully processed document.
type PipelineResult struct {
	ExtractedData Fields    `json:"extracted_data"`
	ClaimType     ClaimType `json:"claim_type"`
	PriorityScore int       `json:"priority_score"`
	RoutingStatus string    `json:"routing_status"`
	AutoProcessed bool      `json:"auto_processed"`
	Message       string    `json:"message,omitempty"`
}

// ReviewQueueEntry is one complex claim waiting for a human reviewer.
type ReviewQueueEntry struct {
	ClaimID       string    `json:"claim_id"`
	PriorityScore int       `json:"priority_score"`
	ClaimData     Fields    `json:"claim_data"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// ReviewQueueResponse lists the queue front to back.
type ReviewQueueResponse struct {
	Entries []ReviewQueueEntry `json:"entries"`
	Total   int                `json:"total"`
}

// Ptr returns a pointer to s. Convenient for building Fields literals.
func Ptr(s string) *string { return &s }

// Value dereferences p, returning "" for the absent marker.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

//Personal.AI order the ending
