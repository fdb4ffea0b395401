package dto

// RecordActionRequest represents an action recording request. EntityID is
// left untyped here because its JSON type depends on the entity kind
// (number for leads, string for tickets); the validator settles it.
type RecordActionRequest struct {
	EntityID any            `json:"entity_id" example:"42"`
	Action   string         `json:"action" binding:"required" example:"assign"`
	Payload  map[string]any `json:"payload" swaggertype:"object,string" example:"assignee:carol"`
}

// GetMetricsRequest represents a metrics query request
type GetMetricsRequest struct {
	Range string `form:"range" binding:"required" example:"week"`
}
