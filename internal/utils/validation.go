package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// fieldMessages overrides the generic message for a field and rule pair
var fieldMessages = map[string]string{
	"name.required":                  "El nombre no puede ir vacío",
	"email.required":                 "El e-mail es obligatorio",
	"email.email":                    "E-mail no válido",
	"password.required":              "El password no puede ir vacío",
	"password.min":                   "El password es muy corto, mínimo 8 caracteres",
	"password_confirmation.required": "Confirma tu password",
	"password_confirmation.eqfield":  "Los password no son iguales",
	"token.required":                 "El token no puede ir vacío",
	"token.numeric":                  "Token no válido",
	"token.len":                      "Token no válido",
	"projectName.required":           "El nombre del proyecto es obligatorio",
	"clientName.required":            "El nombre del cliente es obligatorio",
	"description.required":           "La descripción del proyecto es obligatoria",
}

// Validate runs struct validation rules on v
func Validate(v any) error {
	return validate.Struct(v)
}

// ValidateVar checks a single value against a tag such as "numeric,len=6"
func ValidateVar(v any, tag string) error {
	return validate.Var(v, tag)
}

// FormatValidationError turns validator errors into per-field messages.
// Errors of any other type yield nil.
func FormatValidationError(err error) []dto.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()

		msg, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			switch fe.Tag() {
			case "required":
				msg = fmt.Sprintf("%s es obligatorio", field)
			case "min":
				msg = fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
			case "email":
				msg = fmt.Sprintf("%s no es un e-mail válido", field)
			default:
				msg = fmt.Sprintf("%s no es válido", field)
			}
		}

		out = append(out, dto.FieldError{Field: field, Msg: msg})
	}
	return out
}
