package domain

import (
	"fmt"
	"strings"
)

// ValidateUserName rejects names that cannot serve as a directory name
// under the data directory.
func ValidateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("user name is empty: %w", ErrInvalidUserName)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, ErrInvalidUserName)
	}
	return nil
}
