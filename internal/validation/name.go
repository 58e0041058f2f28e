package validation

import (
	"strings"
)

// ValidateName validates a goal name. Empty names are allowed and fall back
// to the activity type for display.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) > 100 {
		return &Error{Field: "name", Message: "name is too long (max 100 characters)"}
	}

	return nil
}
