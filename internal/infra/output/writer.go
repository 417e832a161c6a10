package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

const SummaryFile = "analysis_summary.md"

// Writer writes analysis results as JSON, plain text, DSL and markdown files.
// Single writer, no atomic rename: an existing file of the same name is overwritten.
type Writer struct {
	FS afero.Fs
}

var _ domain.Writer = (*Writer)(nil)

func NewWriter(fsys afero.Fs) *Writer {
	return &Writer{FS: fsys}
}

// ResultPaths returns the JSON and text paths WriteResult uses for a subject
func ResultPaths(dir, subject string) (jsonPath, textPath string) {
	base := domain.Slug(subject) + "-analysis"
	return filepath.Join(dir, base+".json"), filepath.Join(dir, base+".text")
}

// DebugPath returns where WriteDebug puts the debug dump of a feature
func DebugPath(dir, feature string) string {
	return filepath.Join(dir, domain.Slug(feature)+"_analysis_debug.json")
}

// WriteResult writes <slug>-analysis.json and <slug>-analysis.text
func (w *Writer) WriteResult(dir string, r *domain.Result) ([]string, error) {
	jsonPath, textPath := ResultPaths(dir, r.SubjectName)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %w", domain.ErrOutputWrite, err)
	}
	if err := w.write(jsonPath, data); err != nil {
		return nil, err
	}
	if err := w.write(textPath, []byte(FormatText(r))); err != nil {
		return []string{jsonPath}, err
	}
	return []string{jsonPath, textPath}, nil
}

// FormatText renders the human-readable form of a result
func FormatText(r *domain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis for: %s\n", r.SubjectName)
	fmt.Fprintf(&b, "Generated at: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Images analyzed: %s\n\n", strings.Join(r.ImagesAnalyzed, ", "))
	b.WriteString(r.AnalysisText)
	if !strings.HasSuffix(r.AnalysisText, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// WriteDSL wraps body in the wireframe DSL header/footer and writes it to dir/filename
func (w *Writer) WriteDSL(dir, filename string, h domain.DSLHeader, body string) (string, error) {
	path := filepath.Join(dir, filename)
	if err := w.write(path, []byte(FormatDSL(h, body))); err != nil {
		return "", err
	}
	return path, nil
}

// FormatDSL renders a DSL document
func FormatDSL(h domain.DSLHeader, body string) string {
	featureContext := h.FeatureContext
	if featureContext == "" {
		featureContext = "N/A"
	}
	method := h.Method
	if method == "" {
		method = "Multi-stage AI pattern analysis"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Wireframe DSL - %s\n", h.Title)
	fmt.Fprintf(&b, "# Generated on: %s\n", h.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "# Feature Context: %s\n", featureContext)
	fmt.Fprintf(&b, "# Analysis Method: %s\n", method)
	fmt.Fprintf(&b, "# Screenshots Analyzed: %d\n\n---\n\n", h.ScreenshotsCount)
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n---\n# End of Wireframe DSL\n")
	return b.String()
}

// WriteSummary writes analysis_summary.md for a project run
func (w *Writer) WriteSummary(dir string, p *domain.ProjectResult) (string, error) {
	path := filepath.Join(dir, SummaryFile)
	if err := w.write(path, []byte(FormatSummary(p))); err != nil {
		return "", err
	}
	return path, nil
}

// FormatSummary renders the markdown summary of a project run
func FormatSummary(p *domain.ProjectResult) string {
	r := p.Result
	var b strings.Builder
	fmt.Fprintf(&b, "# Analysis Summary - %s\n\n", p.FeatureContext)
	fmt.Fprintf(&b, "- Generated at: %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Provider: %s\n", r.Provider)
	fmt.Fprintf(&b, "- Model: %s\n", r.ModelUsed)
	fmt.Fprintf(&b, "- Screenshots analyzed: %d\n", r.Metadata.TotalImages)
	fmt.Fprintf(&b, "- Tokens used: %d (prompt %d, completion %d)\n", r.Metadata.TokensUsed, r.Metadata.PromptTokens, r.Metadata.CompletionTokens)
	if r.Metadata.CostEstimateUSD != nil {
		fmt.Fprintf(&b, "- Estimated cost: $%.6f\n", *r.Metadata.CostEstimateUSD)
	} else {
		b.WriteString("- Estimated cost: n/a\n")
	}

	b.WriteString("\n## Screenshots\n\n")
	for i, pa := range p.PatternAnalyses {
		fmt.Fprintf(&b, "%d. `%s` → `%s`\n", i+1, pa.ImageName, domain.DSLName(pa.ImageName))
	}

	b.WriteString("\n## Outputs\n\n")
	fmt.Fprintf(&b, "- Wireframe: `%s`\n", domain.WireframeFile)
	for _, o := range p.Outputs {
		fmt.Fprintf(&b, "- `%s`\n", filepath.Base(o))
	}
	return b.String()
}

// WriteDebug writes <feature>_analysis_debug.json
func (w *Writer) WriteDebug(dir, feature string, d *domain.DebugRecord) (string, error) {
	path := DebugPath(dir, feature)
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode debug record: %w", domain.ErrOutputWrite, err)
	}
	if err := w.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) write(path string, data []byte) error {
	if err := w.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrOutputWrite, filepath.Dir(path), err)
	}
	if err := afero.WriteFile(w.FS, path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrOutputWrite, err)
	}
	return nil
}
