package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	middleware "github.com/Rojan6190/shop/pkg/middleware/auth"

	"github.com/Rojan6190/shop/internal/service"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict, "insufficient stock: " + err.Error()
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, "out of stock: " + err.Error()
	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "cart is empty"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// fail logs err under event and turns it into the caller-facing HTTP error.
// Internal failures are logged in full but reported without detail.
func fail(l *slog.Logger, event string, err error) error {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", msg)
	}
	return echo.NewHTTPError(status, msg)
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// userID reads the caller id put in the context by the auth middleware.
func userID(c echo.Context) (uint, error) {
	s, ok := c.Get(middleware.ContextUserID).(string)
	if !ok || s == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return uint(id), nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}
