package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// errorResponse is the JSON body every error path produces.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// errorHandler translates domain and validation errors into HTTP
// status codes. Domain error kinds carry enough semantics that the
// handlers never need to pick status codes themselves.
func errorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classifyError(err)
		if status >= http.StatusInternalServerError {
			log.Error("http request failed",
				logger.Err(err),
				logger.String("path", c.Request().URL.Path),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error("failed to write error response", logger.Err(writeErr))
		}
	}
}

func classifyError(err error) (int, errorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, _ := httpErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(httpErr.Code)
		}
		resp := errorResponse{Error: msg}

		var fieldErrs validator.ValidationErrors
		if errors.As(httpErr.Internal, &fieldErrs) {
			resp.Fields = make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				resp.Fields[fe.Field()] = fe.Tag()
			}
			resp.Error = "validation failed"
		}
		return httpErr.Code, resp
	}

	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, shared.ErrAlreadyResolved),
		errors.Is(err, shared.ErrStateTransition),
		errors.Is(err, shared.ErrInvalidState):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidFormat),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrNegativeValue),
		errors.Is(err, shared.ErrValueOutOfRange):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, shared.ErrServiceUnavailable),
		errors.Is(err, shared.ErrTimeout):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)}
}
