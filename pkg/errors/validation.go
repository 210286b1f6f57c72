package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Stages a saved hotspot set can live in.
var validStages = map[string]bool{
	"draft":     true,
	"review":    true,
	"published": true,
}

// slugRegex matches menu names and dish identifiers: lowercase-friendly
// slugs that double as file names and storage keys.
var slugRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// validateText applies the checks shared by every identifier: non-empty,
// bounded length, no control characters.
func validateText(code Code, kind, s string, maxLen int) error {
	if s == "" {
		return New(code, "%s cannot be empty", kind)
	}
	if len(s) > maxLen {
		return New(code, "%s too long (max %d characters)", kind, maxLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(code, "%s contains invalid control characters", kind)
		}
	}
	return nil
}

// ValidateMenuName validates a menu name before it is used to build a
// content file path. Names may not contain path separators or "..".
func ValidateMenuName(name string) error {
	if err := validateText(ErrCodeInvalidMenu, "menu name", name, 128); err != nil {
		return err
	}
	if strings.Contains(name, "..") || !slugRegex.MatchString(name) {
		return New(ErrCodeInvalidMenu, "invalid menu name: %q", name)
	}
	return nil
}

// ValidateDishID validates a dish identifier. Dish ids appear in storage
// keys and default image paths, so the same slug rules as menus apply.
func ValidateDishID(id string) error {
	if err := validateText(ErrCodeInvalidDish, "dish id", id, 256); err != nil {
		return err
	}
	if strings.Contains(id, "..") || !slugRegex.MatchString(id) {
		return New(ErrCodeInvalidDish, "invalid dish id: %q", id)
	}
	return nil
}

// ValidateIngredientID validates a hotspot's ingredient id. Ingredient ids
// are opaque to the layout engine; only emptiness and control characters
// are rejected.
func ValidateIngredientID(id string) error {
	return validateText(ErrCodeInvalidInput, "ingredient id", id, 256)
}

// ValidateStage validates a media stage: draft, review or published.
func ValidateStage(stage string) error {
	if !validStages[stage] {
		return New(ErrCodeInvalidStage, "invalid stage %q (want draft, review or published)", stage)
	}
	return nil
}

// ValidatePath validates a relative file path inside the content or media
// directory. It prevents path traversal attacks and ensures reasonable path
// length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
