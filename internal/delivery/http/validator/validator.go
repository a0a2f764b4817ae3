// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RequestValidator validates bound request payloads against their struct tags.
type RequestValidator struct {
	validate *validatorv10.Validate
}

// New creates a RequestValidator backed by a single shared Validate instance.
func New() *RequestValidator {
	return &RequestValidator{validate: validatorv10.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}
