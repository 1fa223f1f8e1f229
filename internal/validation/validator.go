// Package validation adapts go-playground/validator to Echo's
// Validator interface so handlers can declare constraints as struct
// tags on their request DTOs.
package validation

import "github.com/go-playground/validator/v10"

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// New returns a validator ready to be assigned to echo.Echo.Validator.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks i against its `validate` tags. The raw validator
// error is returned; handlers translate it into a 400 response.
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
