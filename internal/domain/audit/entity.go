package audit

import (
	"time"
)

// EventType names an audited mutation
type EventType string

const (
	TypeClockIn      EventType = "attendance.clock_in"
	TypeClockOut     EventType = "attendance.clock_out"
	TypeApproved     EventType = "attendance.approved"
	TypeRejected     EventType = "attendance.rejected"
	TypeSessionStale EventType = "attendance.session_stale"

	TypeWorkLogCreated EventType = "worklog.created"
	TypeWorkLogUpdated EventType = "worklog.updated"
	TypeWorkLogDeleted EventType = "worklog.deleted"
)

// Event is one audit record. UserID is whose data changed; ActorID is who
// changed it (empty for system jobs).
type Event struct {
	ID         string
	Type       EventType
	UserID     string
	ActorID    string
	EntityType string
	EntityID   string
	Data       map[string]any
	OccurredAt time.Time
}

// EventResponse is the payload pushed to live subscribers
type EventResponse struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	UserID     string         `json:"user_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		Type:       e.Type,
		UserID:     e.UserID,
		ActorID:    e.ActorID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Data:       e.Data,
		OccurredAt: e.OccurredAt,
	}
}
