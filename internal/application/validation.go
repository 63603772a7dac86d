package application

import (
	"fmt"
	"strings"

	"laserlab/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "layoutID" -> "layout ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"layoutID": "layout ID",
		"nodeID":   "node ID",
		"sourceID": "source ID",
		"targetID": "target ID",
		"name":     "name",
		"text":     "text",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateSize checks that both dimensions are positive numbers
func ValidateSize(fieldName string, size domain.Size) error {
	if !(size.Width > 0) || !(size.Height > 0) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected positive width and height, got: %gx%g", size.Width, size.Height),
		}
	}
	return nil
}

// ValidateFontSize checks the font size is one of the selectable sizes
func ValidateFontSize(fieldName string, size domain.FontSize) error {
	for _, f := range domain.FontSizes {
		if f == size {
			return nil
		}
	}
	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("unsupported font size: %s", size),
	}
}
