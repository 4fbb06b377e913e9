package validation

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Instance names become URL path segments on the gateway side.
	instanceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,50}$`)
	// Pairing phone numbers: digits with optional leading plus, E.164-ish.
	pairingPhoneRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("instancename", validateInstanceName)
	v.RegisterValidation("pairingphone", validatePairingPhone)
	v.RegisterValidation("url", validateURL)
}

func validateInstanceName(fl validator.FieldLevel) bool {
	return instanceNameRegex.MatchString(fl.Field().String())
}

func validatePairingPhone(fl validator.FieldLevel) bool {
	return pairingPhoneRegex.MatchString(fl.Field().String())
}

func validateURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()
	if urlStr == "" {
		return true // Allow empty URLs
	}
	_, err := url.ParseRequestURI(urlStr)
	return err == nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// FormatValidationError formats validation errors into a user-friendly response
func FormatValidationError(err error) []ValidationError {
	var errors []ValidationError
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
	}
	return errors
}
