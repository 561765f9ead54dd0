package invoices

import (
	"errors"
	"sort"
	"strings"
)

// ValidationError reports every field that failed validation. Errors maps the
// form field name to the messages for that field.
type ValidationError struct {
	Errors  map[string][]string
	Message string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return e.Message + " (" + strings.Join(fields, ", ") + ")"
}

// PersistenceError is returned when the store rejects a statement. The cause
// is logged where it happens and deliberately not carried.
type PersistenceError struct {
	Op      string
	Message string
}

func (e *PersistenceError) Error() string {
	return e.Message
}

// State is what a form caller sees after a failed action.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

const unexpectedErrorMessage = "Something went wrong. Please try again later"

func StateFromError(err error) State {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return State{Errors: verr.Errors, Message: verr.Message}
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return State{Message: perr.Message}
	}
	return State{Message: unexpectedErrorMessage}
}
