package claim

import (
	"github.com/turtacn/claims-intake/pkg/types/common"
)

// ClaimRoutedEvent is emitted once per successfully routed claim.
type ClaimRoutedEvent struct {
	common.BaseEvent
	ClaimType     Type     `json:"claim_type"`
	PriorityScore int      `json:"priority_score"`
	RoutingStatus string   `json:"routing_status"`
	AutoProcessed bool     `json:"auto_processed"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Fields        Fields   `json:"extracted_data"`
	SourceFormat  string   `json:"source_format,omitempty"`
}

// NewClaimRoutedEvent builds the event for claimID.
func NewClaimRoutedEvent(claimID string, fields Fields, c Classification, status string, format string) *ClaimRoutedEvent {
	return &ClaimRoutedEvent{
		BaseEvent:     common.NewBaseEvent(claimID),
		ClaimType:     c.Type,
		PriorityScore: c.PriorityScore,
		RoutingStatus: status,
		AutoProcessed: !c.IsComplex(),
		MissingFields: c.MissingFields,
		Fields:        fields,
		SourceFormat:  format,
	}
}

//Personal.AI order the ending
