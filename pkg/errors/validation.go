package errors

import (
	"strings"
	"unicode"
)

// Export formats accepted by [ValidateFormats].
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

var validFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ValidateFormats checks that every requested diagram export format is supported.
// An empty list is valid; callers apply their own default.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", f)
		}
	}
	return nil
}

// ValidateBaseName validates the base path used to name exported diagram files.
//
// Rules:
//   - Cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Cannot end in a path separator
func ValidateBaseName(base string) error {
	if base == "" {
		return New(ErrCodeInvalidInput, "output base name cannot be empty")
	}

	const maxLength = 500
	if len(base) > maxLength {
		return New(ErrCodeInvalidInput, "output base name too long (max %d characters)", maxLength)
	}

	for _, r := range base {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output base name contains invalid characters")
		}
	}

	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, "\\") {
		return New(ErrCodeInvalidInput, "output base name must name a file, not a directory")
	}

	return nil
}
