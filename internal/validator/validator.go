package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/Artotz/lead-middleware-sub001/internal/domain"
	"github.com/Artotz/lead-middleware-sub001/internal/dto"
)

// ValidationError carries every violation found in a request, so a caller
// can fix all fields at once instead of resubmitting per field.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
}

// ValidatedAction is the normalized result of a successful validation.
// Payload is one of the domain payload structs matching Action, or nil
// for actions that carry none.
type ValidatedAction struct {
	Entity  domain.EntityRef
	Action  domain.Action
	Payload any
}

// Validate checks and normalizes an incoming action request for the given
// entity kind. Pure function: no I/O, no mutation of the input. On failure
// the returned error is a *ValidationError listing all violations.
func Validate(kind domain.EntityKind, raw *dto.RecordActionRequest) (*ValidatedAction, error) {
	var details []string

	entity, entityDetails := validateEntityID(kind, raw.EntityID)
	details = append(details, entityDetails...)

	action := domain.Action(strings.TrimSpace(raw.Action))
	if action == "" {
		details = append(details, "action is required")
	} else if !domain.ActionAllowed(kind, action) {
		details = append(details, fmt.Sprintf("action %q is not allowed for %s (allowed: %s)",
			action, kind, joinActions(domain.AllowedActions(kind))))
	}

	var payload any
	if action != "" && domain.ActionAllowed(kind, action) {
		var payloadDetails []string
		payload, payloadDetails = validatePayload(action, raw.Payload)
		details = append(details, payloadDetails...)
	}

	if len(details) > 0 {
		return nil, &ValidationError{
			Message: fmt.Sprintf("invalid %s action", kind),
			Details: details,
		}
	}

	return &ValidatedAction{
		Entity:  entity,
		Action:  action,
		Payload: payload,
	}, nil
}

// validateEntityID coerces entity_id to the documented type for the kind:
// positive integer for leads, non-empty string for tickets.
func validateEntityID(kind domain.EntityKind, raw any) (domain.EntityRef, []string) {
	switch kind {
	case domain.EntityKindLead:
		num, ok := raw.(float64)
		if !ok {
			return domain.EntityRef{}, []string{"entity_id is required and must be a positive integer for leads"}
		}
		if num != math.Trunc(num) || num <= 0 {
			return domain.EntityRef{}, []string{fmt.Sprintf("entity_id must be a positive integer for leads, got %v", num)}
		}
		return domain.LeadRef(int64(num)), nil

	case domain.EntityKindTicket:
		str, ok := raw.(string)
		if !ok || strings.TrimSpace(str) == "" {
			return domain.EntityRef{}, []string{"entity_id is required and must be a non-empty string for tickets"}
		}
		return domain.TicketRef(strings.TrimSpace(str)), nil
	}

	return domain.EntityRef{}, []string{fmt.Sprintf("unknown entity kind %q", kind)}
}

// validatePayload checks the payload shape declared by the action and
// returns the normalized typed payload.
func validatePayload(action domain.Action, raw map[string]any) (any, []string) {
	switch action {
	case domain.ActionAssign:
		assignee := trimmedField(raw, "assignee")
		if assignee == "" {
			return nil, []string{"payload.assignee is required for assign"}
		}
		return domain.AssignPayload{Assignee: assignee}, nil

	case domain.ActionStatusChange:
		to := trimmedField(raw, "to")
		if to == "" {
			return nil, []string{"payload.to is required for status_change"}
		}
		return domain.StatusChangePayload{From: trimmedField(raw, "from"), To: to}, nil

	case domain.ActionNote:
		body := trimmedField(raw, "body")
		if body == "" {
			return nil, []string{"payload.body is required for note"}
		}
		return domain.NotePayload{Body: body}, nil

	case domain.ActionClose:
		if reason := trimmedField(raw, "reason"); reason != "" {
			return domain.ClosePayload{Reason: reason}, nil
		}
		return nil, nil
	}

	// Actions without a payload contract (e.g. convert) ignore the field.
	return nil, nil
}

func trimmedField(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func joinActions(actions []domain.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, ", ")
}
