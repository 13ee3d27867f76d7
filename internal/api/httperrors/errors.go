package httperrors

import (
	"fmt"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
)

// HTTPError wraps the public error envelope with optional internal context.
type HTTPError struct {
	types.PublicHTTPError

	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

// NewHTTPError creates a new HTTPError with the given status code, type and title.
func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(errorType),
			Title: swag.String(title),
		},
	}
}

// NewHTTPErrorWithDetail creates a new HTTPError with an internal error attached.
func NewHTTPErrorWithDetail(code int, errorType string, title string, internal error) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Internal = internal
	return e
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError %d (%s): %s", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title))
}

// HTTPValidationError extends HTTPError with per-field validation details.
type HTTPValidationError struct {
	types.PublicHTTPValidationError

	Internal       error                  `json:"-"`
	AdditionalData map[string]interface{} `json:"-"`
}

// NewHTTPValidationError creates a new HTTPValidationError with the given details.
func NewHTTPValidationError(code int, errorType string, title string, validationErrors []*types.HTTPValidationErrorDetail) *HTTPValidationError {
	return &HTTPValidationError{
		PublicHTTPValidationError: types.PublicHTTPValidationError{
			PublicHTTPError: types.PublicHTTPError{
				Code:  swag.Int64(int64(code)),
				Type:  swag.String(errorType),
				Title: swag.String(title),
			},
			ValidationErrors: validationErrors,
		},
	}
}

func (e *HTTPValidationError) Error() string {
	return fmt.Sprintf("HTTPValidationError %d (%s): %s", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title))
}

// NewFromEcho creates a new HTTPError from an echo.HTTPError.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, fmt.Sprintf("%v", e.Message))
}

// HTTPErrorHandler converts errors into the public error envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		payload interface{}
	)

	switch e := err.(type) {
	case *HTTPError:
		code = int(swag.Int64Value(e.Code))
		payload = e
	case *HTTPValidationError:
		code = int(swag.Int64Value(e.Code))
		payload = e
	case *echo.HTTPError:
		converted := NewFromEcho(e)
		code = int(swag.Int64Value(converted.Code))
		payload = converted
	default:
		payload = NewHTTPError(code, types.PublicHTTPErrorTypeGeneric, http.StatusText(code))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, payload)
}
