package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/storefront/internal/domain"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies a storefront error into the status and code the local HTTP
// surface answers with. Unknown errors are internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var rej *domain.RejectedError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return New(http.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrOutOfStock):
		return New(http.StatusConflict, "OUT_OF_STOCK", err)
	case errors.Is(err, domain.ErrEmptyCart):
		return New(http.StatusUnprocessableEntity, "EMPTY_CART", err)
	case errors.As(err, &rej):
		status := rej.Status
		if status < 400 || status > 499 {
			status = http.StatusBadRequest
		}
		return New(status, "REJECTED", err)
	case errors.Is(err, domain.ErrUnreachable):
		return New(http.StatusBadGateway, "UNREACHABLE", err)
	case errors.Is(err, domain.ErrStorageFailure):
		return New(http.StatusInsufficientStorage, "STORAGE_FAILURE", err)
	case errors.Is(err, domain.ErrInvalid):
		return New(http.StatusBadRequest, "INVALID_INPUT", err)
	case errors.Is(err, domain.ErrNotInitialized):
		return New(http.StatusServiceUnavailable, "NOT_INITIALIZED", err)
	default:
		return New(http.StatusInternalServerError, "INTERNAL", err)
	}
}
