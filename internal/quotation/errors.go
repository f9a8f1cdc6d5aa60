package quotation

import (
	"errors"
	"fmt"

	"github.com/tripdesk/tripdesk/internal/platform/httpx"
)

var (
	// ErrNotFound indicates an unknown draft code on resume.
	ErrNotFound = errors.New("quotation draft not found")
	// ErrDraftLocked indicates a step submission against a confirmed draft.
	ErrDraftLocked = errors.New("quotation draft is confirmed and frozen")
)

// ValidationError names a missing or out-of-range step field. The step is
// not advanced and the draft is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// FieldName implements httpx.FieldError.
func (e *ValidationError) FieldName() string { return e.Field }

// Unwrap lets errors.Is match httpx.ErrValidation.
func (e *ValidationError) Unwrap() error { return httpx.ErrValidation }

// NightsMismatch is the non-fatal warning raised when allocated nights
// differ from the trip request's target. It never blocks progression but
// must be surfaced to the caller with both quantities.
type NightsMismatch struct {
	Allocated int
	Required  int
}

func (m *NightsMismatch) String() string {
	return fmt.Sprintf("allocated %d nights but the trip request asks for %d", m.Allocated, m.Required)
}
