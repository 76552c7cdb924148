package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// E164-like phone: optional +, digits 7-15 length
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_phone", ValidPhone)
}

// ValidPhone validates a phone number structure. Empty strings fail:
// absence is expressed with a nil pointer (skipped by omitempty), and
// required catches missing values on registration, so a present empty
// value is always invalid.
func ValidPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}
