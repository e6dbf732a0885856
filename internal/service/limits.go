package service

import (
	"fmt"
	"unicode/utf8"
)

// checkLen rejects values longer than the column that stores them.
// Lengths are counted in characters, as varchar does.
func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field, max)
	}
	return nil
}

// clip shortens text produced by the chef so it fits its column
func clip(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}
