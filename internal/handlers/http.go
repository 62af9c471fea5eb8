package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	apperrors "github.com/umalmyha/customers/internal/errors"
	"github.com/umalmyha/customers/internal/result"
	"github.com/umalmyha/customers/internal/validation"
)

// MsgInvalidID is reported when id in path isn't an integer
const MsgInvalidID = "Customer id must be an integer."

type health struct {
	Status string `json:"status"`
}

// ErrorHandler builds echo error handler which logs errors and hides details of unexpected ones
func ErrorHandler(e *echo.Echo, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		entry := logger.WithError(err).WithField("request_id", c.Response().Header().Get(echo.HeaderXRequestID))

		var pldErr *validation.PayloadError
		if errors.As(err, &pldErr) {
			entry.Warn("request payload is not valid")
			if err := c.JSON(http.StatusBadRequest, pldErr); err != nil {
				entry.WithError(err).Error("failed to send response")
			}
			return
		}

		var vErr *apperrors.ValidationErr
		if errors.As(err, &vErr) {
			entry.Warn("request parameters are not valid")
			if err := c.JSON(http.StatusBadRequest, vErr); err != nil {
				entry.WithError(err).Error("failed to send response")
			}
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
			entry.Warn("request was rejected")
		} else {
			entry.Error("error occurred while handling request")
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}

// HealthHTTPHandler reports whether storage engine is reachable
type HealthHTTPHandler struct {
	ping   func(context.Context) error
	logger logrus.FieldLogger
}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler(ping func(context.Context) error, logger logrus.FieldLogger) *HealthHTTPHandler {
	return &HealthHTTPHandler{ping: ping, logger: logger}
}

// Get pings storage engine
func (h *HealthHTTPHandler) Get(c echo.Context) error {
	if err := h.ping(c.Request().Context()); err != nil {
		h.logger.WithError(err).Error("storage engine is unreachable")
		return c.JSON(http.StatusServiceUnavailable, &health{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, &health{Status: "ok"})
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperrors.NewValidationErr(apperrors.Violation{Field: validation.FieldID, Message: MsgInvalidID})
	}
	return id, nil
}

// respond writes true for successful result, validation failure is sent as field to messages map
func respond(c echo.Context, res result.Result[bool], err error) error {
	if err != nil {
		return err
	}

	return result.Match(res,
		func(v bool) error {
			return c.JSON(http.StatusOK, v)
		},
		func(err error) error {
			var vErr *apperrors.ValidationErr
			if errors.As(err, &vErr) {
				return c.JSON(http.StatusBadRequest, vErr)
			}
			return err
		},
	)
}
