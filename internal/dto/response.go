package dto

import (
	"time"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error" example:"validation_error"`
	Message string   `json:"message,omitempty" example:"action is not allowed for ticket"`
	Details []string `json:"details,omitempty" example:"payload.assignee is required for assign"`
}

// RecordActionResponse echoes the persisted event back to the caller,
// including the store-assigned id and timestamp.
type RecordActionResponse struct {
	ID          string    `json:"id" example:"7d9a1f9e-52d6-4f0f-9a0a-330fd0a57b11"`
	EntityKind  string    `json:"entity_kind" example:"ticket"`
	EntityID    string    `json:"entity_id" example:"TCK-1042"`
	ActorUserID string    `json:"actor_user_id" example:"u_8842"`
	ActorEmail  string    `json:"actor_email" example:"carol@example.com"`
	ActorName   string    `json:"actor_name" example:"Carol"`
	Action      string    `json:"action" example:"assign"`
	Source      string    `json:"source" example:"middleware"`
	Payload     any       `json:"payload,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewRecordActionResponse builds the response for a persisted event.
func NewRecordActionResponse(event *domain.Event) *RecordActionResponse {
	return &RecordActionResponse{
		ID:          event.ID,
		EntityKind:  string(event.EntityKind),
		EntityID:    event.EntityID,
		ActorUserID: event.ActorUserID,
		ActorEmail:  event.ActorEmail,
		ActorName:   event.ActorName,
		Action:      string(event.Action),
		Source:      event.Source,
		Payload:     event.Payload,
		OccurredAt:  event.OccurredAt,
	}
}

// UserActionMetricsData represents aggregated activity for a single actor
type UserActionMetricsData struct {
	ActorUserID      string         `json:"actor_user_id" example:"u_8842"`
	TotalActions     int            `json:"total_actions" example:"17"`
	UniqueItems      int            `json:"unique_items" example:"5"`
	ActionsBreakdown map[string]int `json:"actions_breakdown"`
}

// GetUserMetricsResponse represents the per-actor metrics query response
type GetUserMetricsResponse struct {
	Range string                  `json:"range" example:"week"`
	From  string                  `json:"from" example:"2024-02-24"`
	To    string                  `json:"to" example:"2024-03-01"`
	Users []UserActionMetricsData `json:"users"`
}

// DailyActionMetricsData represents one actor's activity on one calendar day
type DailyActionMetricsData struct {
	ActorUserID  string `json:"actor_user_id" example:"u_8842"`
	Date         string `json:"date" example:"2024-03-01"`
	TotalActions int    `json:"total_actions" example:"3"`
}

// GetDailyMetricsResponse represents the daily-series metrics query response
type GetDailyMetricsResponse struct {
	Range  string                   `json:"range" example:"week"`
	From   string                   `json:"from" example:"2024-02-24"`
	To     string                   `json:"to" example:"2024-03-01"`
	Days   []string                 `json:"days"`
	Series []DailyActionMetricsData `json:"series"`
}
