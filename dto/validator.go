package dto

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("trimmed_min", validateTrimmedMin)
}

func GetValidator() *validator.Validate {
	return validate
}

// validateTrimmedMin checks the rune length of a string after surrounding whitespace is removed.
func validateTrimmedMin(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var out []ValidationError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}

	for _, fieldError := range validationErrors {
		var message string

		switch fieldError.Tag() {
		case "required":
			message = fieldError.Field() + " is required"
		case "min", "trimmed_min":
			message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
		case "max":
			message = fieldError.Field() + " must be at most " + fieldError.Param()
		case "gte":
			message = fieldError.Field() + " must be at least " + fieldError.Param()
		default:
			message = fieldError.Field() + " is invalid"
		}

		out = append(out, ValidationError{
			Field:   fieldError.Namespace(),
			Message: message,
		})
	}

	return out
}

// ValidationMessage flattens a validation failure into the single string sent to clients.
func ValidationMessage(err error) string {
	formatted := FormatValidationErrors(err)
	if len(formatted) == 0 {
		return err.Error()
	}
	messages := make([]string, 0, len(formatted))
	for _, v := range formatted {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

type Validator interface {
	Validate() error
}
