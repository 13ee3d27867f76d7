package util

import (
	"net/http"

	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/httperrors"
	"github.com/muhittincamdali/enterprise-security-framework/internal/types"
)

// Validatable is implemented by all payload types carrying their own validation rules.
type Validatable interface {
	Validate(formats strfmt.Registry) error
}

// BindAndValidateBody binds the request body to the given payload and runs its validation.
// Malformed JSON and failed validations both surface as a 400 HTTPValidationError.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	binder := c.Echo().Binder.(*echo.DefaultBinder)

	if err := binder.BindBody(c, v); err != nil {
		return httperrors.NewHTTPValidationError(
			http.StatusBadRequest,
			types.PublicHTTPErrorTypeGeneric,
			"Invalid request body",
			[]*types.HTTPValidationErrorDetail{
				{
					Key:   swag.String("body"),
					In:    swag.String("body"),
					Error: swag.String(err.Error()),
				},
			},
		)
	}

	return validatePayload(c, v)
}

func validatePayload(c echo.Context, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		valErrs := formatValidationErrors(err)
		LogFromEchoContext(c).Debug().Errs("validation_errors", valErrs).Msg("Payload validation failed")

		details := make([]*types.HTTPValidationErrorDetail, 0, len(valErrs))
		for _, valErr := range valErrs {
			details = append(details, &types.HTTPValidationErrorDetail{
				Key:   swag.String("payload"),
				In:    swag.String("body"),
				Error: swag.String(valErr.Error()),
			})
		}

		return httperrors.NewHTTPValidationError(
			http.StatusBadRequest,
			types.PublicHTTPErrorTypeGeneric,
			"Validation failed",
			details,
		)
	}

	return nil
}

// ValidateAndReturn validates the given response payload and writes it as JSON on success.
func ValidateAndReturn(c echo.Context, code int, v Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response validation failed")
		return echo.ErrInternalServerError
	}

	return c.JSON(code, v)
}

func formatValidationErrors(err error) []error {
	if err == nil {
		return nil
	}

	return []error{err}
}
