package http

import (
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/core/domain/model/submission"
	"atelier/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/labstack/echo/v4"
)

// Error kinds reported in the body of every failed request.
const (
	KindNotFound          = "NotFound"
	KindValidation        = "ValidationError"
	KindInvalidTransition = "InvalidTransition"
	KindForbidden         = "Forbidden"
	KindConflict          = "Conflict"
	KindHighVariance      = "HighVarianceUnacknowledged"
	KindAlreadyExists     = "AlreadyExists"
	KindUnauthorized      = "Unauthorized"
	KindInternal          = "InternalError"
)

var (
	errMalformedRequest = errors.New("malformed request")
	errUnauthenticated  = errors.New("no authenticated actor")
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code             int     `json:"code"`
	Kind             string  `json:"kind"`
	Message          string  `json:"message"`
	VariancePercent  *string `json:"variancePercent,omitempty"`
	ThresholdPercent *string `json:"thresholdPercent,omitempty"`
}

// malformed marks a body or parameter that could not be decoded at all.
func malformed(err error) error {
	return errors.Join(errMalformedRequest, err)
}

func errorResponseOf(err error) ErrorResponse {
	var (
		high    *submission.HighVarianceError
		reqErr  *openapi3filter.RequestError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &high):
		variance := high.Variance.StringFixed(2)
		threshold := high.Threshold.String()
		return ErrorResponse{
			Code:             http.StatusUnprocessableEntity,
			Kind:             KindHighVariance,
			Message:          err.Error(),
			VariancePercent:  &variance,
			ThresholdPercent: &threshold,
		}
	case errors.Is(err, errUnauthenticated):
		return newErrorResponse(http.StatusUnauthorized, KindUnauthorized, err)
	case errors.Is(err, errs.ErrObjectNotFound):
		return newErrorResponse(http.StatusNotFound, KindNotFound, err)
	case errors.Is(err, errs.ErrForbidden):
		return newErrorResponse(http.StatusForbidden, KindForbidden, err)
	case errors.Is(err, errs.ErrInvalidTransition):
		return newErrorResponse(http.StatusConflict, KindInvalidTransition, err)
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionIsInvalid):
		return newErrorResponse(http.StatusConflict, KindConflict, err)
	case errors.Is(err, errs.ErrAlreadyExists):
		return newErrorResponse(http.StatusConflict, KindAlreadyExists, err)
	case errors.Is(err, errMalformedRequest):
		return newErrorResponse(http.StatusBadRequest, KindValidation, err)
	case errors.As(err, &reqErr):
		var parseErr *openapi3filter.ParseError
		if errors.As(reqErr, &parseErr) {
			return newErrorResponse(http.StatusBadRequest, KindValidation, err)
		}
		return newErrorResponse(http.StatusUnprocessableEntity, KindValidation, err)
	case errs.IsValidation(err):
		return newErrorResponse(http.StatusUnprocessableEntity, KindValidation, err)
	case errors.As(err, &httpErr):
		return ErrorResponse{Code: httpErr.Code, Kind: kindOfStatus(httpErr.Code), Message: http.StatusText(httpErr.Code)}
	default:
		return ErrorResponse{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: "internal error",
		}
	}
}

func newErrorResponse(code int, kind string, err error) ErrorResponse {
	return ErrorResponse{Code: code, Kind: kind, Message: err.Error()}
}

func kindOfStatus(code int) string {
	switch code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	}
	if code >= http.StatusInternalServerError {
		return KindInternal
	}
	return KindValidation
}

// ErrorHandler replaces echo's default error handler so that domain errors
// reach clients as ErrorResponse bodies.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := errorResponseOf(err)
		if resp.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			logger.Error("write error response", "error", writeErr)
		}
	}
}
