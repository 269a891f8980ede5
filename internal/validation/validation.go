// Package validation wraps go-playground/validator with the rules the booking forms share.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// New returns a validator that reports fields by their json names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	// card_expiry accepts MM/YY
	_ = v.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return cardExpiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// FieldErrors maps a field name to a message that is shown next to its input.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+f[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Merge adds the entries of other that f does not already hold.
func (f FieldErrors) Merge(other FieldErrors) FieldErrors {
	if len(other) == 0 {
		return f
	}
	if f == nil {
		f = FieldErrors{}
	}
	for k, v := range other {
		if _, exists := f[k]; !exists {
			f[k] = v
		}
	}
	return f
}

// Struct validates s and returns nil when it is valid.
func Struct(v *validator.Validate, s any) FieldErrors {
	return fromError(v.Struct(s))
}

// Var validates a single value under the given field name.
func Var(v *validator.Validate, field string, value any, tag string) FieldErrors {
	errs := fromError(v.Var(value, tag))
	if errs == nil {
		return nil
	}
	out := FieldErrors{}
	for _, msg := range errs {
		out[field] = msg
	}
	return out
}

func fromError(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; !exists {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must contain only digits"
	case "len":
		if isText {
			return fmt.Sprintf("must be exactly %s characters", fe.Param())
		}
		return fmt.Sprintf("must be %s", fe.Param())
	case "min", "gte":
		if isText {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "card_expiry":
		return "must be a valid MM/YY date"
	}
	return "is invalid"
}
