package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ValidateFilename checks an uploaded file's name.
// It is required, may not be a bare directory, and must be <= 255 chars.
func ValidateFilename(filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("filename is required")
	}
	base := filepath.Base(filepath.ToSlash(filename))
	if base == "." || base == "/" || base == ".." {
		return errors.New("filename is required")
	}
	if len(filename) > 255 {
		return errors.New("filename too long (max 255 characters)")
	}
	return nil
}
