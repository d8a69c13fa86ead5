package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// chartIDRegex matches chart identifiers usable as file names, cache keys
// and URL path segments.
var chartIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateChartID validates a chart identifier for safety.
// It rejects IDs that could be used for path traversal or key injection.
//
// Validation rules:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Letters, digits, dot, dash and underscore only
//   - Must not start with a separator
//   - No ".." sequences
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "chart id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "chart id too long (max %d characters)", maxIDLength)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "chart id cannot contain path traversal sequences (..)")
	}

	if !chartIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid chart id: %q", id)
	}

	return nil
}

// ValidateCategoryName validates a category display name.
// Names must be non-blank, at most 256 characters and free of control characters.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "category name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "category name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "category name contains invalid control characters")
		}
	}

	return nil
}
