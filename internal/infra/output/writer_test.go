package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

func sampleResult() *domain.Result {
	cost := 0.0105
	return &domain.Result{
		ID:             "0b7c1a4e-7f0e-4f55-9d59-0c9a6f1d2b11",
		SubjectName:    "Checkout",
		FolderPath:     "input/screen-checkout",
		ImagesAnalyzed: []string{"dashboard.png", "login.png"},
		AnalysisText:   "SCREEN Checkout\n  SECTION Cart",
		Provider:       "openai",
		ModelUsed:      "gpt-4o",
		GeneratedAt:    time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		Metadata: domain.Metadata{
			TotalImages:      2,
			ImageFiles:       []string{"input/screen-checkout/dashboard.png", "input/screen-checkout/login.png"},
			AnalysisType:     domain.ModeScreen,
			PromptTokens:     1200,
			CompletionTokens: 300,
			TokensUsed:       1500,
			CostEstimateUSD:  &cost,
		},
	}
}

func TestWriter_WriteResultRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w := NewWriter(fsys)
	in := sampleResult()

	paths, err := w.WriteResult("/out/checkout", in)
	require.NoError(t, err)
	require.Equal(t, []string{"/out/checkout/checkout-analysis.json", "/out/checkout/checkout-analysis.text"}, paths)

	data, err := afero.ReadFile(fsys, paths[0])
	require.NoError(t, err)
	var out domain.Result
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, *in, out)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{"dashboard.png", "login.png"}, raw["images_analyzed"])
	assert.Equal(t, "SCREEN Checkout\n  SECTION Cart", raw["analysis_text"])
}

func TestWriter_WriteResultText(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := NewWriter(fsys).WriteResult("/out", sampleResult())
	require.NoError(t, err)

	text, err := afero.ReadFile(fsys, "/out/checkout-analysis.text")
	require.NoError(t, err)
	assert.Equal(t, "Analysis for: Checkout\n"+
		"Generated at: 2026-10-16T09:30:00Z\n"+
		"Images analyzed: dashboard.png, login.png\n\n"+
		"SCREEN Checkout\n  SECTION Cart\n", string(text))
}

func TestWriter_Overwrites(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w := NewWriter(fsys)
	r := sampleResult()
	_, err := w.WriteResult("/out", r)
	require.NoError(t, err)

	r.AnalysisText = "second"
	_, err = w.WriteResult("/out", r)
	require.NoError(t, err)

	text, err := afero.ReadFile(fsys, "/out/checkout-analysis.text")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(text), "\n\nsecond\n"))
}

func TestWriter_ReadOnlyFS(t *testing.T) {
	w := NewWriter(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	_, err := w.WriteResult("/out", sampleResult())
	assert.True(t, errors.Is(err, domain.ErrOutputWrite), err)
}

func TestWriter_WriteDSL(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path, err := NewWriter(fsys).WriteDSL("/out", domain.WireframeFile, domain.DSLHeader{
		Title:            "review-management",
		FeatureContext:   "Review Management",
		ScreenshotsCount: 3,
		GeneratedAt:      time.Date(2026, 10, 16, 9, 30, 5, 0, time.UTC),
	}, "SCREEN Reviews\n\n")
	require.NoError(t, err)
	assert.Equal(t, "/out/application_wireframe.dsl", path)

	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.Equal(t, "# Wireframe DSL - review-management\n"+
		"# Generated on: 2026-10-16 09:30:05\n"+
		"# Feature Context: Review Management\n"+
		"# Analysis Method: Multi-stage AI pattern analysis\n"+
		"# Screenshots Analyzed: 3\n\n---\n\n"+
		"SCREEN Reviews\n\n---\n# End of Wireframe DSL\n", string(data))
}

func TestWriter_WriteSummaryAndDebug(t *testing.T) {
	fsys := afero.NewMemMapFs()
	w := NewWriter(fsys)
	p := &domain.ProjectResult{
		Result:         sampleResult(),
		FeatureContext: "Checkout",
		PatternAnalyses: []domain.PatternAnalysis{
			{ImageName: "dashboard.png", Analysis: "a"},
			{ImageName: "login.png", Analysis: "b"},
		},
		Outputs: []string{"/out/checkout-analysis.json"},
	}

	path, err := w.WriteSummary("/out", p)
	require.NoError(t, err)
	summary, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "# Analysis Summary - Checkout")
	assert.Contains(t, string(summary), "1. `dashboard.png` → `dashboard.dsl`")
	assert.Contains(t, string(summary), "- Estimated cost: $0.010500")
	assert.Contains(t, string(summary), "- `checkout-analysis.json`")

	debugPath, err := w.WriteDebug("/out", "Checkout", &domain.DebugRecord{
		PatternAnalyses: p.PatternAnalyses,
		FailedStage:     domain.StageWireframeGeneration,
		Error:           "boom",
	})
	require.NoError(t, err)
	assert.Equal(t, "/out/checkout_analysis_debug.json", debugPath)

	var back domain.DebugRecord
	data, err := afero.ReadFile(fsys, debugPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "wireframe-generation", back.FailedStage)
	assert.Len(t, back.PatternAnalyses, 2)
}
