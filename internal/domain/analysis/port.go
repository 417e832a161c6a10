package analysis

import "context"

// VisionClient submits images plus a prompt to a chat-style vision model
type VisionClient interface {
	Analyze(ctx context.Context, req Request) (Response, error)
	Provider() string
}

// PromptBuilder produces the instruction text for each kind of request
type PromptBuilder interface {
	System() string
	ForMode(mode Mode, subject string, imageCount int) (string, error)
	PatternExtraction(subject string, index, total int) string
	WireframeGeneration(featureContext string, patterns []PatternAnalysis) string
	WireframeRefinement(wireframe string) string
}

// Writer persists results to an output directory and returns the written paths
type Writer interface {
	WriteResult(dir string, r *Result) ([]string, error)
	WriteDSL(dir, filename string, h DSLHeader, body string) (string, error)
	WriteSummary(dir string, p *ProjectResult) (string, error)
	WriteDebug(dir, feature string, d *DebugRecord) (string, error)
}

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, tenant string, r *Result) error
	Get(ctx context.Context, tenant, id string) (*Result, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Result, error)
}

// ArtifactStore port (upload written output files)
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
