package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every offending field of a rejected payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError converts binding and decoding failures into a
// ValidationError. prefix is prepended to field paths, e.g. "row 3".
func NewValidationError(err error, prefix string) *ValidationError {
	var fields []FieldError

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   withPrefix(prefix, fieldPath(fe)),
				Rule:    fe.Tag(),
				Message: ruleMessage(fe),
			})
		}
	case errors.As(err, &typeErr):
		fields = append(fields, FieldError{
			Field:   withPrefix(prefix, typeErr.Field),
			Rule:    "type",
			Message: "must be of type " + typeErr.Type.String(),
		})
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		fields = append(fields, FieldError{
			Field:   withPrefix(prefix, "body"),
			Rule:    "json",
			Message: "must be a valid JSON document",
		})
	default:
		fields = append(fields, FieldError{
			Field:   withPrefix(prefix, "body"),
			Rule:    "invalid",
			Message: err.Error(),
		})
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the struct name from the namespace: "Order.items[0].qty"
// becomes "items[0].qty".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func withPrefix(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + ": " + field
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "calendar_date":
		return "must be a date in YYYY-MM-DD format"
	case "clock_time":
		return "must be a time in HH:MM format"
	case "objectid":
		return "must be a 24-character hex identifier"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
