package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidID            = errors.New("invalid id")
	ErrGenerationInProgress = errors.New("pdf generation already in progress")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// toValidationError turns validator output into a single message. Missing fields are reported
// together, as "Missing required fields: a, b"; other failures name the offending field.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	sort.Strings(invalid)

	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Missing required fields: " + strings.Join(missing, ", ")}
	}
	return &ValidationError{Fields: invalid, Message: fmt.Sprintf("Invalid value for %s", strings.Join(invalid, ", "))}
}
