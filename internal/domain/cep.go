package domain

import (
	"errors"
	"regexp"
	"strings"
)

// CEPPattern matches five digits, an optional hyphen, then three digits.
var CEPPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// ErrInvalidCEP is returned when input does not match CEPPattern.
var ErrInvalidCEP = errors.New("invalid cep format")

// ValidCEP reports whether raw is an acceptable CEP. No trimming is applied.
func ValidCEP(raw string) bool {
	return CEPPattern.MatchString(raw)
}

// NormalizeCEP validates raw and returns its eight bare digits.
func NormalizeCEP(raw string) (string, error) {
	if !ValidCEP(raw) {
		return "", ErrInvalidCEP
	}
	return strings.Replace(raw, "-", "", 1), nil
}

// FormatCEP renders eight digits in the hyphenated display form.
// Input that is not eight characters long is returned unchanged.
func FormatCEP(digits string) string {
	if len(digits) != 8 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}
