package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrDuplicate   = errors.New("duplicate entry")
	ErrValidation  = errors.New("validation failed")
	ErrComputation = errors.New("computation failed")
	ErrLocked      = errors.New("resource locked")
)

// FieldError carries the name of the offending field alongside the reason.
// Domain packages wrap ErrValidation or ErrComputation so RespondError can
// map them to the right status while keeping the field visible.
type FieldError interface {
	error
	FieldName() string
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var fieldErr FieldError
	hasField := errors.As(err, &fieldErr)

	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrLocked):
		Problem(w, http.StatusConflict, "Locked", err.Error())
	case errors.Is(err, ErrValidation):
		if hasField {
			FieldProblem(w, http.StatusBadRequest, "Validation Failed", err.Error(), fieldErr.FieldName())
			return
		}
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrComputation):
		if hasField {
			FieldProblem(w, http.StatusUnprocessableEntity, "Computation Failed", err.Error(), fieldErr.FieldName())
			return
		}
		Problem(w, http.StatusUnprocessableEntity, "Computation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
