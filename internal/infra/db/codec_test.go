package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

func TestEncodeDecodeResult(t *testing.T) {
	cost := 0.02
	in := &domain.Result{
		ID:             "id-1",
		SubjectName:    "Checkout",
		FolderPath:     "input/screen-checkout",
		ImagesAnalyzed: []string{"a.png", "b.png"},
		AnalysisText:   "text",
		Provider:       "openai",
		ModelUsed:      "gpt-4o",
		GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Metadata:       domain.Metadata{TotalImages: 2, AnalysisType: domain.ModeScreen, TokensUsed: 9, CostEstimateUSD: &cost},
	}

	row, err := EncodeResult("acme", in)
	require.NoError(t, err)
	assert.Equal(t, "acme", row.TenantID)
	assert.Equal(t, "screen", row.Mode)
	assert.Equal(t, `["a.png","b.png"]`, row.ImagesJSON)

	out, err := row.Decode()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeResult_Defaults(t *testing.T) {
	row, err := EncodeResult("", &domain.Result{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "-", row.TenantID)
	assert.Equal(t, "-", row.SubjectName)
	assert.False(t, row.CreatedAt.IsZero())
}

func TestNormalizeDetails(t *testing.T) {
	assert.Equal(t, "{}", NormalizeDetails("  "))
	assert.Equal(t, `{"a":1}`, NormalizeDetails(`{"a":1}`))
	assert.Equal(t, `{"raw":"not json"}`, NormalizeDetails("not json"))
}

func TestPage(t *testing.T) {
	page, size, offset := Page(0, 0)
	assert.Equal(t, []int{1, 20, 0}, []int{page, size, offset})
	page, size, offset = Page(3, 10)
	assert.Equal(t, []int{3, 10, 20}, []int{page, size, offset})
}
