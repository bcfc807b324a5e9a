package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Freeeeeet/booking_portal/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const loginPage = "/login"

var (
	errConfirmationRequired = echo.NewHTTPError(http.StatusPreconditionRequired, "confirmation required: repeat with ?confirm=true")
	errBadID                = echo.NewHTTPError(http.StatusBadRequest, "malformed id")
)

// statusFor коды для доменных ошибок
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotApproved):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrSlotTaken),
		errors.Is(err, service.ErrAvailabilityOverlap),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, true
	}
	return 0, false
}

// newHTTPErrorHandler переводит ошибки сервисов в JSON ответы
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int
		var message interface{}

		var httpErr *echo.HTTPError
		var vErr *service.ValidationError

		switch {
		case errors.As(err, &httpErr):
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &vErr):
			code = http.StatusBadRequest
			message = echo.Map{"error": "validation failed", "fields": vErr.FieldMap()}
		default:
			if status, ok := statusFor(err); ok {
				code = status
				message = err.Error()
				break
			}

			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if m, ok := message.(string); ok {
			body := echo.Map{"error": m}
			if code == http.StatusUnauthorized {
				body["redirect"] = loginPage
			}
			message = body
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, message)
			}
			if err != nil {
				logger.Error("Failed to write error response", zap.Error(err))
			}
		}
	}
}
