package analysis

import (
	"errors"
	"fmt"
)

// ErrAnalysisFailed is the umbrella for anything that stops a model call from producing text.
var ErrAnalysisFailed = errors.New("analysis failed")

// ErrExternalService indicates a network, auth or malformed-response failure from the inference backend.
var ErrExternalService = fmt.Errorf("%w: external service error", ErrAnalysisFailed)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = fmt.Errorf("%w: ai quota exceeded", ErrExternalService)

// ErrOutputWrite indicates results could not be written to the output directory.
var ErrOutputWrite = errors.New("output write failed")

// Pipeline stage names used in StageError and run error records
const (
	StageScan                = "scan"
	StagePrompt              = "prompt"
	StageAnalyze             = "analyze"
	StagePatternExtraction   = "pattern-extraction"
	StageWireframeGeneration = "wireframe-generation"
	StageWireframeRefinement = "wireframe-refinement"
	StagePersist             = "persist"
	StageUpload              = "upload"
	StageRecord              = "record"
)

// StageError tells which stage of a run failed and keeps the cause
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage recorded in err, or "" when err carries none
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
