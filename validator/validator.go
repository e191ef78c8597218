package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator with the intake-form rules.
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance.
func New() *Validator {
	v := validator.New()

	// Report errors with json field names, not Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("amount", validateAmount)
	v.RegisterValidation("loose_phone", validateLoosePhone)

	return &Validator{
		validator: v,
	}
}

// ValidateStruct validates a struct and returns formatted errors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if s == nil {
		return fmt.Errorf("input cannot be nil")
	}

	if err := v.validator.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errs []string
			for _, validationErr := range validationErrors {
				errs = append(errs, v.formatFieldError(validationErr))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
		}
		return fmt.Errorf("validation error: %v", err)
	}
	return nil
}

// formatFieldError formats a single field validation error.
func (v *Validator) formatFieldError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, strings.ToLower(param))
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "amount":
		return fmt.Sprintf("%s must be a positive number", field)
	case "loose_phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validateAmount accepts a decimal string greater than zero. Amounts travel
// as strings end to end so no float precision is lost before review.
func validateAmount(fl validator.FieldLevel) bool {
	amount, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && amount > 0
}

var (
	loosePhoneChars = regexp.MustCompile(`^[\d+\-\s()]+$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// validateLoosePhone accepts common phone formats: digits with optional
// +, -, spaces, and parentheses, carrying at least 10 digits overall.
func validateLoosePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if !loosePhoneChars.MatchString(phone) {
		return false
	}
	return len(nonDigits.ReplaceAllString(phone, "")) >= 10
}
