package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct based on its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError turns validator errors into field-specific messages
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, formatFieldError(e))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

func formatFieldError(e validator.FieldError) string {
	field := jsonFieldName(e)

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("Falta el campo obligatorio: %s", field)
	case "min":
		return fmt.Sprintf("'%s' debe tener al menos %s caracteres", field, e.Param())
	case "max":
		return fmt.Sprintf("'%s' debe tener como máximo %s caracteres", field, e.Param())
	case "email":
		return fmt.Sprintf("'%s' debe ser un correo válido", field)
	case "oneof":
		return fmt.Sprintf("Valor de '%s' no válido", field)
	case "gte", "lte":
		return fmt.Sprintf("Valor de '%s' fuera de rango", field)
	default:
		return fmt.Sprintf("Valor de '%s' no válido", field)
	}
}

// jsonFieldName prefers the lowercase field for user-facing messages so the
// response names the JSON key the client sent.
func jsonFieldName(e validator.FieldError) string {
	return strings.ToLower(e.Field())
}
