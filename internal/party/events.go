package party

import "github.com/comalice/chartforms/internal/primitives"

// Invitee events.
const (
	EventAdd     = "ADD"
	EventAccept  = "ACCEPT"
	EventDecline = "DECLINE"
)

// Planner events. INVITEE.UPDATED is sent by an invitee, never by users.
const (
	EventNewInvitee     = "NEW_INVITEE"
	EventInviteeUpdated = "INVITEE.UPDATED"
)

// Add names the guest of an invitee row.
func Add(name string) primitives.Event { return primitives.NewEvent(EventAdd, name) }

// Accept marks a named guest as coming.
func Accept() primitives.Event { return primitives.NewEvent(EventAccept, nil) }

// Decline marks a named guest as not coming.
func Decline() primitives.Event { return primitives.NewEvent(EventDecline, nil) }

// NewInvitee appends an empty row with the given ID to the planner's list.
func NewInvitee(id string) primitives.Event {
	return primitives.NewEvent(EventNewInvitee, Invitee{ID: id})
}

// InviteeUpdated replaces the row with the given ID.
func InviteeUpdated(id, name string) primitives.Event {
	return primitives.NewEvent(EventInviteeUpdated, Invitee{ID: id, Invitee: name})
}
