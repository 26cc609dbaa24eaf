package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed validation rule in a request payload.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

// Validate performs validation on a struct.
func Validate(s interface{}) error {
	validate := validator.New()
	return validate.Struct(s)
}

// FieldErrors converts validator errors into a structured list for the
// error envelope.
func FieldErrors(err error) []FieldError {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Rule: e.Tag(), Value: e.Param()})
	}
	return out
}

// BindAndValidate binds the request body to a struct and validates it.
// If binding or validation fails, it sends a 422 response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		UnprocessableEntity(c, "Invalid request payload", FieldErrors(err))
		return false
	}
	if err := Validate(obj); err != nil {
		UnprocessableEntity(c, "Validation failed", FieldErrors(err))
		return false
	}
	return true
}
