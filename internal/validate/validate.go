// Package validate checks user-supplied submission fields before they
// reach the store.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFeeAmount = 1_000_000

// Name requires at least two characters, letters and spaces only, and
// returns the trimmed value.
func Name(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < 2 {
		return "", fmt.Errorf("name must be at least 2 characters long")
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return "", fmt.Errorf("name can only contain letters and spaces")
		}
	}
	return trimmed, nil
}

// Roll requires at least three characters and normalizes to upper case.
func Roll(roll string) (string, error) {
	trimmed := strings.TrimSpace(roll)
	if utf8.RuneCountInString(trimmed) < 3 {
		return "", fmt.Errorf("roll number must be at least 3 characters long")
	}
	return strings.ToUpper(trimmed), nil
}

// Fee parses a positive amount, tolerating thousands separators.
func Fee(fee string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(fee), ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("fee must be a valid number")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("fee amount must be positive")
	}
	if amount > maxFeeAmount {
		return 0, fmt.Errorf("fee amount seems unreasonably high")
	}
	return amount, nil
}
