package errors

import (
	"strings"
	"unicode"
)

// ValidateTargetName validates a build target name.
// Target names are either producer names ("onnxruntime_common") or output
// directories ("onnxruntime/core/providers/cuda", "."), so slashes are allowed
// but control characters and path traversal are not.
func ValidateTargetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGraph, "target name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidGraph, "target name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "target name contains invalid control characters")
		}
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidGraph, "target name cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidatePath validates a source path inside the vendored tree.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal segments (..)
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
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /): %s", path)
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..): %s", path)
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %s", path)
	}

	return nil
}

// ValidatePaths validates every path and returns the first failure.
func ValidatePaths(paths []string) error {
	for _, p := range paths {
		if err := ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}
