package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// fieldMessage turns a single validation failure into the public message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "should be a valid email"
	case "min":
		return fmt.Sprintf("should have a minimum length of %s", fe.Param())
	case "max":
		return fmt.Sprintf("should have a maximum length of %s", fe.Param())
	case "alphanum":
		return "should only contain letters and numbers"
	case "eqfield":
		return fmt.Sprintf("should match %s", strings.ToLower(fe.Param()))
	default:
		return "is invalid"
	}
}

// fieldName lowercases the struct field so errors mirror the JSON keys.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// BindJSON binds the request body and, on failure, reports every invalid
// field together as a field→message map. Returns false when the request
// was already answered.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		RespondFieldErrors(c, fields)
		return false
	}

	RespondError(c, 400, "invalid request body")
	return false
}
