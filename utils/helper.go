package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default phone region for parsing bare local numbers.
var CountryCode = "UA"

// NormalizePhone reduces a phone number to its canonical digit string
// (E.164 without the plus). Uniqueness checks run against this form so
// "+380 50 123 45 67" and "0501234567" collide as expected.
func NormalizePhone(phoneNumber string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, CountryCode)
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", NewValidationError("phone", "phone number is not valid")
	}
	return strings.TrimPrefix(libphonenumber.Format(p, libphonenumber.E164), "+"), nil
}

// FormatPhone renders a canonical digit string for display.
// Falls back to the stored value when it cannot be parsed.
func FormatPhone(digits string) string {
	p, err := libphonenumber.Parse("+"+digits, CountryCode)
	if err != nil {
		return digits
	}
	return libphonenumber.Format(p, libphonenumber.INTERNATIONAL)
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func DereferencePtr[T any](ptr *T, def ...T) T {
	if ptr != nil {
		return *ptr
	}
	var zero T
	if len(def) > 0 {
		return def[0]
	}
	return zero
}
