package domain

import "time"

// EntityKind identifies which kind of record an event concerns.
type EntityKind string

const (
	EntityKindLead   EntityKind = "lead"
	EntityKindTicket EntityKind = "ticket"
)

// ParseEntityKind converts a path/query value into an EntityKind.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case EntityKindLead, EntityKindTicket:
		return EntityKind(s), true
	}
	return "", false
}

// Action is a permitted operation on a lead or ticket.
type Action string

const (
	ActionAssign       Action = "assign"
	ActionStatusChange Action = "status_change"
	ActionNote         Action = "note"
	ActionConvert      Action = "convert"
	ActionClose        Action = "close"
)

// actionsByKind is the allow-list of actions per entity kind.
var actionsByKind = map[EntityKind][]Action{
	EntityKindLead:   {ActionAssign, ActionStatusChange, ActionNote, ActionConvert},
	EntityKindTicket: {ActionAssign, ActionStatusChange, ActionNote, ActionClose},
}

// AllowedActions returns the actions permitted for the given entity kind.
func AllowedActions(kind EntityKind) []Action {
	return actionsByKind[kind]
}

// ActionAllowed reports whether action is in the allow-list for kind.
func ActionAllowed(kind EntityKind, action Action) bool {
	for _, a := range actionsByKind[kind] {
		if a == action {
			return true
		}
	}
	return false
}

// SourceMiddleware is the provenance tag stamped on every event written
// through this service. It is never client-supplied.
const SourceMiddleware = "middleware"

// Event represents a single immutable user action recorded against a lead
// or ticket. Rows are append-only; the current state of an entity is always
// derived from its event history, never from mutating a row in place.
type Event struct {
	ID          string     `json:"id"`
	EntityKind  EntityKind `json:"entity_kind"`
	EntityID    string     `json:"entity_id"`
	ActorUserID string     `json:"actor_user_id"`
	ActorEmail  string     `json:"actor_email"`
	ActorName   string     `json:"actor_name"`
	Action      Action     `json:"action"`
	Source      string     `json:"source"`
	Payload     any        `json:"payload,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}
