// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "passport/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps a validator instance so Echo's c.Validate works on
// request DTOs carrying `validate` tags.
type echoValidator struct {
	validate *validator.Validate
}

// New builds the validator used by the HTTP server.
func New() *echoValidator {
	return &echoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Validation failures are returned as the
// domain's validation error so the error middleware renders them as 400.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
