package book

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	minYear = 0
	maxYear = 9999
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("form")
	})
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("year", validateYear)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateYear(fl validator.FieldLevel) bool {
	_, err := parseYear(fl.Field().String())
	return err == nil
}

// parseYear converts the optional year field. An empty value means no year.
func parseYear(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse year %q: %w", s, err)
	}
	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("year %d out of range", year)
	}
	return &year, nil
}

// Validate checks f against the record constraints and returns one error per
// failing field, in declaration order. A nil result means f may be persisted.
func Validate(f Fields) []FieldError {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	var out []FieldError
	for _, fe := range verrs {
		field := fe.Field()

		var message string
		switch fe.Tag() {
		case "notblank":
			message = fmt.Sprintf("Please provide a value for %q", field)
		case "max":
			message = fmt.Sprintf("%q must be at most %s characters", field, fe.Param())
		case "year":
			message = fmt.Sprintf("%q must be a whole number between %d and %d", field, minYear, maxYear)
		default:
			message = fmt.Sprintf("%q is invalid", field)
		}

		out = append(out, FieldError{Field: field, Message: message})
	}
	return out
}
