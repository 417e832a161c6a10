package analysis

import "time"

// Mode selects which prompt template and batching rule a run uses
type Mode string

const (
	ModeImage   Mode = "image"   // first screenshot only, comprehensive UI analysis
	ModeFeature Mode = "feature" // all screenshots of a feature in one request
	ModeScreen  Mode = "screen"  // all states of one screen in one request
	ModeProject Mode = "project" // three-stage pattern -> wireframe -> refinement pipeline
)

// Valid reports whether m is one of the known modes
func (m Mode) Valid() bool {
	switch m {
	case ModeImage, ModeFeature, ModeScreen, ModeProject:
		return true
	}
	return false
}

// ImageRef is one image attached to a request
type ImageRef struct {
	Name     string
	Path     string
	MIMEType string
}

// Params sampling parameters for a model call
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Detail      string // low | high | auto
}

// Request is built fresh for every model call and not modified afterwards
type Request struct {
	Images []ImageRef
	Prompt string
	System string
	Params Params
}

// Usage token accounting for one or more calls
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CostUSD          *float64
}

// Add sums two usages. Cost stays nil only when neither side is priced.
func (u Usage) Add(o Usage) Usage {
	out := Usage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
		TotalTokens:      u.TotalTokens + o.TotalTokens,
	}
	if u.CostUSD != nil || o.CostUSD != nil {
		var c float64
		if u.CostUSD != nil {
			c += *u.CostUSD
		}
		if o.CostUSD != nil {
			c += *o.CostUSD
		}
		c = roundUSD(c)
		out.CostUSD = &c
	}
	return out
}

// Response what the vision client hands back
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Metadata extra bookkeeping stored next to the analysis text
type Metadata struct {
	TotalImages      int      `json:"total_images"`
	ImageFiles       []string `json:"image_files"`
	AnalysisType     Mode     `json:"analysis_type"`
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
	TokensUsed       int      `json:"tokens_used"`
	CostEstimateUSD  *float64 `json:"cost_estimate_usd"`
}

// Result is the persisted outcome of one analysis run
type Result struct {
	ID             string    `json:"id"`
	SubjectName    string    `json:"subject_name"`
	FolderPath     string    `json:"folder_path"`
	ImagesAnalyzed []string  `json:"images_analyzed"`
	AnalysisText   string    `json:"analysis_text"`
	Provider       string    `json:"provider"`
	ModelUsed      string    `json:"model_used"`
	GeneratedAt    time.Time `json:"generated_at"`
	Metadata       Metadata  `json:"metadata"`
}

// PatternAnalysis output of the first project stage for one screenshot
type PatternAnalysis struct {
	ImageName string `json:"image_name"`
	ImagePath string `json:"image_path"`
	Analysis  string `json:"analysis"`
}

// ProjectResult outcome of the three-stage pipeline
type ProjectResult struct {
	Result           *Result           `json:"result"`
	FeatureContext   string            `json:"feature_context"`
	PatternAnalyses  []PatternAnalysis `json:"pattern_analyses"`
	InitialWireframe string            `json:"initial_wireframe"`
	Outputs          []string          `json:"outputs"`
}

// DebugMetadata run context stored in the debug dump
type DebugMetadata struct {
	FeatureContext    string    `json:"feature_context"`
	SourceImages      []string  `json:"source_images"`
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	AIModel           string    `json:"ai_model"`
}

// DebugRecord intermediate stage outputs, written whether or not the run succeeded
type DebugRecord struct {
	PatternAnalyses  []PatternAnalysis `json:"pattern_analyses"`
	InitialWireframe string            `json:"initial_wireframe,omitempty"`
	RefinedWireframe string            `json:"refined_wireframe,omitempty"`
	FailedStage      string            `json:"failed_stage,omitempty"`
	Error            string            `json:"error,omitempty"`
	Metadata         DebugMetadata     `json:"metadata"`
}

// DSLHeader fields rendered on top of a wireframe DSL file
type DSLHeader struct {
	Title            string
	FeatureContext   string
	Method           string
	ScreenshotsCount int
	GeneratedAt      time.Time
}
