package validation

import "errors"

// ErrLocationEmpty is returned for an empty location field.
var ErrLocationEmpty = errors.New("Please enter a location")

// ValidateLocation accepts any non-empty input. Whitespace is not trimmed: a
// location of "  " is submitted as typed and left for the provider to judge.
func ValidateLocation(input string) (string, error) {
	if input == "" {
		return "", ErrLocationEmpty
	}
	return input, nil
}
