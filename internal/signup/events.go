package signup

import "github.com/comalice/chartforms/internal/primitives"

// Event types accepted by the sign-up machines.
const (
	EventSetUsername     = "SET_USERNAME"
	EventUsernameEditing = "USERNAME_EDITING"
	EventUsernameFocus   = "USERNAME_FOCUS"
	EventUniqueSuccess   = "UNIQUE_SUCCESS"
	EventUniqueFailure   = "UNIQUE_FAILURE"

	EventSetPassword     = "SET_PASSWORD"
	EventPasswordEditing = "PASSWORD_EDITING"
	EventPasswordFocus   = "PASSWORD_FOCUS"

	EventSubmit        = "SUBMIT"
	EventSubmitPending = "SUBMIT_PENDING"
	EventSubmitSuccess = "SUBMIT_SUCCESS"
	EventSubmitFailure = "SUBMIT_FAILURE"
)

// SetUsername carries a settled username value.
func SetUsername(username string) primitives.Event {
	return primitives.NewEvent(EventSetUsername, username)
}

// SetPassword carries a settled password value.
func SetPassword(password string) primitives.Event {
	return primitives.NewEvent(EventSetPassword, password)
}

// UniqueSuccess answers the uniqueness check for username. It is ignored
// unless username is still the one being checked.
func UniqueSuccess(username string) primitives.Event {
	return primitives.NewEvent(EventUniqueSuccess, username)
}

// UniqueFailure reports username as taken, or its check as failed.
func UniqueFailure(username string) primitives.Event {
	return primitives.NewEvent(EventUniqueFailure, username)
}

// Events without payload.
func EditUsername() primitives.Event    { return primitives.NewEvent(EventUsernameEditing, nil) }
func EditPassword() primitives.Event    { return primitives.NewEvent(EventPasswordEditing, nil) }
func FocusUsername() primitives.Event   { return primitives.NewEvent(EventUsernameFocus, nil) }
func FocusPassword() primitives.Event   { return primitives.NewEvent(EventPasswordFocus, nil) }
func Submit() primitives.Event          { return primitives.NewEvent(EventSubmit, nil) }
func BeginSubmit() primitives.Event     { return primitives.NewEvent(EventSubmitPending, nil) }
func SubmitSucceeded() primitives.Event { return primitives.NewEvent(EventSubmitSuccess, nil) }
func SubmitFailed() primitives.Event    { return primitives.NewEvent(EventSubmitFailure, nil) }
