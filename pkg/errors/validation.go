package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxLabelLength bounds node labels, cluster names and diagram titles.
const maxLabelLength = 256

// ValidateLabel validates a node label, cluster name or diagram title.
//
// Empty labels are allowed (an icon without caption is legal). Newlines and
// tabs are allowed because Graphviz renders them; other control characters
// and null bytes are rejected.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateFilename validates an output file name (without extension).
// It ensures the name is a simple basename that cannot escape the output
// directory.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	const maxFilenameLength = 200
	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidPath, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot start with a dot")
	}

	return nil
}

// blueprintNameRegex matches registry names such as "sdlc-container-apps".
var blueprintNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateBlueprintName validates a blueprint registry name.
func ValidateBlueprintName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "blueprint name cannot be empty")
	}
	if !blueprintNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid blueprint name: %q (lowercase letters, digits and dashes)", name)
	}
	return nil
}
