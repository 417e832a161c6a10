package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

// Input validation and sanitization utilities

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateMode checks the analysis mode of a single-subject request
func ValidateMode(mode string) error {
	m := domain.Mode(strings.ToLower(mode))
	if !m.Valid() || m == domain.ModeProject {
		return fmt.Errorf("invalid mode: %s (allowed: image, feature, screen)", mode)
	}
	return nil
}

// ValidateFolder checks a folder given relative to the input root.
// Absolute paths and anything escaping the root are rejected.
func ValidateFolder(folder string) error {
	if strings.TrimSpace(folder) == "" {
		return fmt.Errorf("folder cannot be empty")
	}
	if filepath.IsAbs(folder) || strings.HasPrefix(folder, "/") {
		return fmt.Errorf("folder must be relative to the input directory")
	}

	cleaned := filepath.Clean(folder)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(folder, `..\`) {
		return fmt.Errorf("path traversal detected")
	}

	dangerous := []string{"$(", "`", "&", "|", ";", "\n", "\r", "\x00"}
	for _, d := range dangerous {
		if strings.Contains(folder, d) {
			return fmt.Errorf("invalid characters in folder")
		}
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}
	if !tenantPattern.MatchString(tenant) {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateRunID validates an analysis/run ID (uuid)
func ValidateRunID(id string) error {
	if id == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid run ID format")
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
