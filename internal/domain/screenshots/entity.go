package screenshots

import (
	"path/filepath"
	"strings"
	"time"
)

// ImageFileInfo describes one screenshot found on disk
type ImageFileInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created"`
	ModifiedAt time.Time `json:"modified"`
}

// SizeMB is the size in megabytes, formatted the way listings print it
func (f ImageFileInfo) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}

// DefaultExtensions accepted by the locator when config does not override them
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

const fallbackMIME = "image/png"

// MIMEType maps a file name (or bare extension) to the content type sent to the model.
// Unknown extensions fall back to image/png.
func MIMEType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(strings.TrimPrefix(name, "."))
	}
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return fallbackMIME
	}
}

// Names returns the file names in the given order
func Names(files []ImageFileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

// Paths returns the file paths in the given order
func Paths(files []ImageFileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}
