package http

import (
	"errors"
	"net/http"

	"robodelivery/internal/core/domain/model/order"
	"robodelivery/internal/core/domain/model/robot"
	"robodelivery/internal/generated/servers"
	"robodelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, robot.ErrRobotIsBusy),
		errors.Is(err, order.ErrRobotAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as an Error body. Server errors are logged and their
// detail is not sent to the client.
func (s *Server) fail(ctx echo.Context, err error, what string) error {
	code := statusFor(err)
	message := what + ": " + err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), what, "error", err)
		message = what
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
