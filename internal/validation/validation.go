package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/2beens/liftlog/pkg"
)

const Message = "validation failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names, that is what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

type FieldError struct {
	Field   string
	Message string
}

// Errors is a list of field level validation failures.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return Message + ": " + strings.Join(parts, "; ")
}

func (e Errors) ResponseFields() []pkg.FieldError {
	fields := make([]pkg.FieldError, 0, len(e))
	for _, fe := range e {
		fields = append(fields, pkg.FieldError{Field: fe.Field, Message: fe.Message})
	}
	return fields
}

func New(field, message string) Errors {
	return Errors{{Field: field, Message: message}}
}

// AsErrors unwraps err into validation Errors, if it carries them.
func AsErrors(err error) (Errors, bool) {
	var vErrs Errors
	if errors.As(err, &vErrs) {
		return vErrs, true
	}
	return nil, false
}

// Struct validates s by its `validate` tags and returns Errors, or nil when valid.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	vErrs := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		vErrs = append(vErrs, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return vErrs
}

// fieldPath strips the struct type name: "createWorkoutRequest.sets[0].reps" -> "sets[0].reps"
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		if isText {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isText {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}
