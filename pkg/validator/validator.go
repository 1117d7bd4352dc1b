package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-cdms-inventory/internal/apperror"
	"go-cdms-inventory/internal/model"
)

var (
	validate = validator.New()

	hsCodePattern   = regexp.MustCompile(`^[0-9]{6,10}$`)
	passwordAllowed = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
)

func init() {
	// Report JSON field names instead of Go struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("hs_code", func(fl validator.FieldLevel) bool {
		return hsCodePattern.MatchString(fl.Field().String())
	})

	validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
}

// IsStrongPassword requires a lower case letter, an upper case letter, a digit
// and one of @$!%*?&, drawn only from those classes.
func IsStrongPassword(s string) bool {
	if !passwordAllowed.MatchString(s) {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// ValidateStruct returns one FieldError per failed rule, in field order.
func ValidateStruct(data interface{}) []apperror.FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return fields
}

// Check wraps ValidateStruct into a validation AppError, or nil.
func Check(data interface{}) error {
	if fields := ValidateStruct(data); len(fields) > 0 {
		return apperror.Validation("Validation failed", fields...)
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "hs_code":
		return "HS Code must be between 6-10 digits"
	case "strong_password":
		return "Password must contain at least one uppercase letter, one lowercase letter, one number and one special character"
	case "role":
		return "Invalid role specified"
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
