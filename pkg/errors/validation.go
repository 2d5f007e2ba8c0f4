package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxInputSize caps the almanac payload accepted by the API and CLI.
const maxInputSize = 4 << 20

// ValidatePath validates an input or output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputExt checks that an output path ends in one of the allowed
// extensions (compared case-insensitively, including the leading dot).
func ValidateOutputExt(path string, allowed ...string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "unsupported output extension %q (must be one of: %s)", ext, strings.Join(allowed, ", "))
}

// ValidateInputSize rejects empty or oversized almanac payloads.
func ValidateInputSize(data []byte) error {
	if len(data) == 0 {
		return New(ErrCodeInvalidInput, "input is empty")
	}
	if len(data) > maxInputSize {
		return New(ErrCodeInvalidInput, "input too large (%d bytes, max %d)", len(data), maxInputSize)
	}
	return nil
}
