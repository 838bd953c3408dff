// Package apperr defines the outcome taxonomy shared by every domain
// service. Services wrap these sentinels with context via fmt.Errorf and
// handlers translate them to HTTP status codes with HTTPError, so a single
// convention covers what the persistence layer, the token layer and the
// business rules can each report.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrNotFound marks a lookup whose subject does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a write rejected by a uniqueness rule
	// (duplicate email/phone, existing prescription, taken time slot
	// during update).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks a failed credential or token check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a request by an authenticated subject that does
	// not own the resource it is acting on.
	ErrForbidden = errors.New("forbidden")

	// ErrSlotUnavailable marks a booking request for a slot outside the
	// doctor's current availability.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalid marks malformed or rule-violating input.
	ErrInvalid = errors.New("invalid")
)

// HTTPError maps a service error to an echo HTTPError. Unknown errors
// become a generic 500 so internal detail never leaks to the client.
func HTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
