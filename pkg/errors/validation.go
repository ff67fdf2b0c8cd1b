package errors

import (
	"strings"
	"unicode"
)

// MaxRequirementLength bounds raw requirement strings accepted from users.
const MaxRequirementLength = 512

// ValidateRequirement performs the safety checks on a raw requirement string
// that precede parsing. Grammar errors are reported by the parser itself.
//
// The rules are intentionally conservative:
//   - No empty input
//   - No control characters or null bytes
//   - No path separators, since the name ends up in registry URLs
//   - Maximum length of [MaxRequirementLength] bytes
func ValidateRequirement(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return New(ErrCodeInvalidSpec, "requirement cannot be empty")
	}

	if len(raw) > MaxRequirementLength {
		return New(ErrCodeInvalidSpec, "requirement too long (max %d characters)", MaxRequirementLength)
	}

	for _, r := range raw {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "requirement contains invalid control characters")
		}
	}

	for _, pattern := range []string{"/", "\\"} {
		if strings.Contains(raw, pattern) {
			return New(ErrCodeInvalidSpec, "requirement contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
