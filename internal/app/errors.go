package service

import (
	"errors"
	"fmt"

	"github.com/okian/sharpscore/internal/domain/encoding"
	"github.com/okian/sharpscore/internal/domain/features"
	"github.com/okian/sharpscore/internal/domain/scoring"
)

// Error kinds returned by the service. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrExtraction   = errors.New("feature extraction failed")
	ErrModel        = errors.New("model failed")
	ErrCollaborator = errors.New("explanation failed")
	ErrStore        = errors.New("record store failed")

	// ErrMissingUserID is the validation cause for an empty user id.
	ErrMissingUserID = errors.New("userId is required")
)

// Error carries the operation, the kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message is the cause text without the op and kind prefixes.
func (e *Error) Message() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

// KindOf returns the kind of err, or nil when err is not a service error.
func KindOf(err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return nil
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classifyScoring maps a scorer failure onto a kind.
func classifyScoring(err error) error {
	switch {
	case errors.Is(err, features.ErrMissingField),
		errors.Is(err, encoding.ErrUnseenValue),
		errors.Is(err, encoding.ErrUnknownField):
		return ErrExtraction
	case errors.Is(err, scoring.ErrNoRecords):
		return ErrNotFound
	default:
		return ErrModel
	}
}
