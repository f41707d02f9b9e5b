package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// registerNameRegex matches OpenQASM identifiers.
var registerNameRegex = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)

// ValidateRegisterName validates a quantum register name used in hardware
// descriptions and circuits. Names follow the OpenQASM identifier rules:
// a lowercase letter followed by letters, digits or underscores.
func ValidateRegisterName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "register name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "register name too long (max 64 characters)")
	}

	if !registerNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid register name: %q", name)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path cannot start or end with whitespace")
	}

	return nil
}
