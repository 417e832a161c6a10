package analysis

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WireframeFile is the combined wireframe written by a project run
const WireframeFile = "application_wireframe.dsl"

var separators = strings.NewReplacer("-", " ", "_", " ")

// DisplayName turns a folder or feature name into a human title: "review-management" -> "Review Management"
func DisplayName(name string) string {
	name = strings.TrimSpace(separators.Replace(filepath.Base(filepath.Clean(name))))
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}

// Slug is the file-name form of a subject: "Checkout Flow" -> "checkout-flow"
func Slug(subject string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(subject)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "analysis"
	}
	return s
}

// ArtifactKey is the object-store key of an output file: <tenant>/<mode>/<slug>/<file>
func ArtifactKey(tenant string, mode Mode, subject, localPath string) string {
	if strings.TrimSpace(tenant) == "" {
		tenant = "local"
	}
	return strings.Join([]string{tenant, string(mode), Slug(subject), filepath.Base(localPath)}, "/")
}

// DSLName is the per-screenshot DSL file name: login.png -> login.dsl,
// desktop/login.png -> desktop_login.dsl
func DSLName(imageName string) string {
	stem := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	return strings.ReplaceAll(filepath.ToSlash(stem), "/", "_") + ".dsl"
}
