package domain

import "strconv"

// EntityRef is a tagged reference to the lead or ticket an event concerns.
// Lead ids are numeric, ticket ids are opaque strings; exactly one of the
// id fields is meaningful, selected by Kind.
type EntityRef struct {
	Kind     EntityKind
	LeadID   int64
	TicketID string
}

// LeadRef builds a reference to a lead.
func LeadRef(id int64) EntityRef {
	return EntityRef{Kind: EntityKindLead, LeadID: id}
}

// TicketRef builds a reference to a ticket.
func TicketRef(id string) EntityRef {
	return EntityRef{Kind: EntityKindTicket, TicketID: id}
}

// Key returns the storage representation of the entity id.
func (r EntityRef) Key() string {
	if r.Kind == EntityKindLead {
		return strconv.FormatInt(r.LeadID, 10)
	}
	return r.TicketID
}
