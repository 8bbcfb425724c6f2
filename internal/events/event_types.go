package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated   EventType = "user_created"
	EventUserUpdated   EventType = "user_updated"
	EventUserDeleted   EventType = "user_deleted"
	EventRolesChanged  EventType = "roles_changed"
	EventTeamCreated   EventType = "team_created"
	EventTeamUpdated   EventType = "team_updated"
	EventTeamDeleted   EventType = "team_deleted"
	EventMemberAdded   EventType = "member_added"
	EventMemberRemoved EventType = "member_removed"
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventTicketDeleted EventType = "ticket_deleted"
)

// Event is the audit payload emitted after each committed mutation.
type Event struct {
	Type       EventType      `json:"type"`
	ActorID    int64          `json:"actor_id"`
	EntityID   int64          `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// New builds an event stamped with the current time.
func New(eventType EventType, actorID, entityID int64, detail map[string]any) Event {
	return Event{
		Type:       eventType,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: time.Now(),
		Detail:     detail,
	}
}
