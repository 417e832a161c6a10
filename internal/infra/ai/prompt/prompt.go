package prompt

import (
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

// Builder implements domain.PromptBuilder with the fixed templates in this package.
// It holds no state; every method is a pure function of its arguments.
type Builder struct{}

var _ domain.PromptBuilder = Builder{}

// System gives the system instruction sent with every single-subject request.
func (Builder) System() string {
	return systemPrompt
}

// ForMode picks the template for a single-subject run.
func (b Builder) ForMode(mode domain.Mode, subject string, imageCount int) (string, error) {
	switch mode {
	case domain.ModeImage:
		return ImageAnalysis(subject), nil
	case domain.ModeFeature:
		return FeatureAnalysis(subject, imageCount), nil
	case domain.ModeScreen:
		return ScreenStateAnalysis(subject, imageCount), nil
	default:
		return "", fmt.Errorf("no prompt template for mode %q", mode)
	}
}

// PatternExtraction stage 1: one screenshot at a time.
func (Builder) PatternExtraction(subject string, index, total int) string {
	return fmt.Sprintf(patternExtractionTemplate, index, total, subject)
}

// WireframeGeneration stage 2: every stage 1 output goes into the prompt.
func (Builder) WireframeGeneration(featureContext string, patterns []domain.PatternAnalysis) string {
	return fmt.Sprintf(wireframeGenerationTemplate, featureContext, CombinePatterns(patterns))
}

// WireframeRefinement stage 3: the stage 2 wireframe is embedded verbatim.
func (Builder) WireframeRefinement(wireframe string) string {
	return fmt.Sprintf(wireframeRefinementTemplate, wireframe)
}

// ImageAnalysis single screenshot, comprehensive UI breakdown.
func ImageAnalysis(subject string) string {
	return fmt.Sprintf(imageAnalysisTemplate, subject)
}

// FeatureAnalysis several screenshots belonging to one feature.
func FeatureAnalysis(subject string, imageCount int) string {
	return fmt.Sprintf(featureAnalysisTemplate, imageCount, subject)
}

// ScreenStateAnalysis several screenshots of the same screen in different states.
func ScreenStateAnalysis(subject string, imageCount int) string {
	return fmt.Sprintf(screenStateTemplate, imageCount, subject)
}

// CombinePatterns numbers the per-screenshot analyses for the generation prompt.
func CombinePatterns(patterns []domain.PatternAnalysis) string {
	parts := make([]string, 0, len(patterns))
	for i, p := range patterns {
		parts = append(parts, fmt.Sprintf("**Screenshot Analysis %d (%s):**\n%s", i+1, p.ImageName, p.Analysis))
	}
	return strings.Join(parts, "\n\n")
}
