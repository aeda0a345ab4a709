package services

import (
	"errors"
	"strings"
)

var (
	// ErrIdentityNotKnown guards actions that require a resolved,
	// registered identity.
	ErrIdentityNotKnown = errors.New("email is not registered")

	// ErrAlreadyRegistered is returned by Save when the identity is not in
	// a saveable state.
	ErrAlreadyRegistered = errors.New("identity is already registered")

	// ErrAlreadySubscribed and ErrNotSubscribed guard the detail session's
	// create/update affordances.
	ErrAlreadySubscribed = errors.New("a subscription for this flight already exists")
	ErrNotSubscribed     = errors.New("no subscription exists for this flight")
)

// FieldError is a client-side validation failure attributed to one input
// field. It never reaches the network.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects all applicable field errors of one action so
// they can be reported together.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a field has an attributed error.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
