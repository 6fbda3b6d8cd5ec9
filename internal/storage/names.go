package storage

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// uniqueName turns "My Cat.JPG" into "My_Cat_1a2b3c4d.jpg".
func uniqueName(fileName string) string {
	base, ext := splitName(fileName)
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext
}

// cleanName strips directories and replaces characters that are awkward in
// object keys and URLs.
func cleanName(fileName string) string {
	base, ext := splitName(fileName)
	return base + ext
}

func splitName(fileName string) (string, string) {
	name := path.Base(filepath.ToSlash(strings.TrimSpace(fileName)))
	if name == "." || name == "/" {
		name = ""
	}
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	base = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		base = "file"
	}
	return base, ext
}

// getContentType returns the MIME type for media file extensions
func getContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
