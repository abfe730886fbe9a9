package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// Messages shown for failed form rules.
const (
	msgRequired       = "This field is required"
	msgEmail          = "Please enter a valid email"
	msgLettersOnly    = "Must contain only letters"
	msgContainsLetter = "Must contain at least one letter"
	msgContainsNumber = "Must contain at least one number"
	msgInvalid        = "Invalid input"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// formValidator returns the shared validator with the custom form rules registered.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return snakeCase(f.Name)
		})
		mustRegister(v, "letters_only", func(fl validator.FieldLevel) bool {
			return lettersOnly(fl.Field().String())
		})
		mustRegister(v, "contains_letter", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsLetter) >= 0
		})
		mustRegister(v, "contains_number", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// FieldError is a single failed form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the failed fields of a form in declaration order.
// It matches domain.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return domain.ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

// Message returns the message for field, or "" when it passed.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// ValidateStruct checks a form against its validate tags.
// Only the first failed rule of each field is reported.
func ValidateStruct(form any) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	out := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: ErrorMessage(fe)})
	}
	return out
}

// ErrorMessage maps a failed rule to the text shown next to the field.
func ErrorMessage(fe validator.FieldError) string {
	numeric := fe.Kind() != reflect.String
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return msgEmail
	case "min", "gte":
		if numeric {
			return "Minimum value is " + fe.Param()
		}
		return "Minimum length is " + fe.Param()
	case "max", "lte":
		if numeric {
			return "Maximum value is " + fe.Param()
		}
		return "Maximum length is " + fe.Param()
	case "letters_only":
		return msgLettersOnly
	case "contains_letter":
		return msgContainsLetter
	case "contains_number":
		return msgContainsNumber
	default:
		return msgInvalid
	}
}

// lettersOnly accepts letters separated by single spaces.
func lettersOnly(s string) bool {
	if s == "" {
		return true
	}
	for _, word := range strings.Split(s, " ") {
		if word == "" {
			return false
		}
		for _, r := range word {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

// snakeCase converts a Go field name to its wire name, e.g. PhoneNumber -> phone_number.
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
