package handler

import (
	"github.com/cursos-uc/cursos-app/internal/pkg/validation"
)

// echoValidator lets Echo call c.Validate(req) with the shared rule set.
type echoValidator struct{}

// NewValidator returns a validator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (echoValidator) Validate(i any) error {
	return validation.Struct(i)
}
