package pages

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a named element could not be located in time.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means more than one element matched where exactly one
	// was required.
	ErrAmbiguous = errors.New("ambiguous")
	// ErrTimeout means a located element did not reach the expected state
	// in time.
	ErrTimeout = errors.New("timeout")
)

// ResolveError describes a failed lookup or assertion on the board or
// login page. Its message names the entity so a failing scenario can be
// diagnosed without reading the test body.
type ResolveError struct {
	Kind    error  // ErrNotFound, ErrAmbiguous or ErrTimeout
	Entity  string // project, column, card, tag, control, header
	Name    string
	Message string
	Err     error // underlying engine error, may be nil
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes both the kind and the engine error to errors.Is.
func (e *ResolveError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(entity, name string, err error, format string, args ...any) error {
	return &ResolveError{Kind: ErrNotFound, Entity: entity, Name: name, Message: fmt.Sprintf(format, args...), Err: err}
}

func ambiguous(entity, name string, err error, format string, args ...any) error {
	return &ResolveError{Kind: ErrAmbiguous, Entity: entity, Name: name, Message: fmt.Sprintf(format, args...), Err: err}
}

func timedOut(entity, name string, err error, format string, args ...any) error {
	return &ResolveError{Kind: ErrTimeout, Entity: entity, Name: name, Message: fmt.Sprintf(format, args...), Err: err}
}
