// file: internals/helpers/errors.go
package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ValidationError carries per-field failures. The request is rejected whole;
// nothing was written.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a failure for a field and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// AsValidationError unwraps err into a *ValidationError, nil otherwise.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// JsonServiceError renders a service-layer error: per-field 422 for
// validation errors, the carried status for fiber errors, 500 otherwise.
func JsonServiceError(c *fiber.Ctx, err error) error {
	if ve := AsValidationError(err); ve != nil {
		return JsonValidationError(c, ve.Fields)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "Eroare internă")
}
