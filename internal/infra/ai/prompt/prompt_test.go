package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

func TestForMode_IsDeterministic(t *testing.T) {
	b := Builder{}
	for _, mode := range []domain.Mode{domain.ModeImage, domain.ModeFeature, domain.ModeScreen} {
		first, err := b.ForMode(mode, "Checkout", 3)
		require.NoError(t, err)
		second, err := b.ForMode(mode, "Checkout", 3)
		require.NoError(t, err)
		assert.Equal(t, first, second, mode)
		assert.Contains(t, first, "Checkout", mode)
	}
}

func TestForMode_InterpolatesCount(t *testing.T) {
	b := Builder{}

	feature, err := b.ForMode(domain.ModeFeature, "Reviews", 4)
	require.NoError(t, err)
	assert.Contains(t, feature, "You are given 4 screenshots")
	assert.Contains(t, feature, "MVP")

	screen, err := b.ForMode(domain.ModeScreen, "Login", 2)
	require.NoError(t, err)
	assert.Contains(t, screen, `these 2 screenshots showing the SAME SCREEN "Login"`)
	assert.NotEqual(t, feature, screen)
}

func TestForMode_UnknownMode(t *testing.T) {
	_, err := Builder{}.ForMode(domain.ModeProject, "x", 1)
	assert.Error(t, err)
	_, err = Builder{}.ForMode(domain.Mode("video"), "x", 1)
	assert.Error(t, err)
}

func TestProjectStages(t *testing.T) {
	b := Builder{}
	patterns := []domain.PatternAnalysis{
		{ImageName: "a.png", Analysis: `{"layout":"sidebar"}`},
		{ImageName: "b.png", Analysis: `{"layout":"grid"}`},
	}

	assert.Contains(t, b.PatternExtraction("Review Management", 2, 5), "screenshot 2 of 5")

	gen := b.WireframeGeneration("Review Management", patterns)
	assert.Contains(t, gen, "**Feature:** Review Management")
	assert.Contains(t, gen, "**Screenshot Analysis 1 (a.png):**\n{\"layout\":\"sidebar\"}")
	assert.Contains(t, gen, "**Screenshot Analysis 2 (b.png):**\n{\"layout\":\"grid\"}")

	wire := "SCREEN Reviews\n  SECTION List"
	assert.Contains(t, b.WireframeRefinement(wire), wire)
}

func TestCombinePatterns_Empty(t *testing.T) {
	assert.Equal(t, "", CombinePatterns(nil))
}
