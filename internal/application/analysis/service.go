package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/wireframe-extract/internal/application"
	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/domain/runerrors"
	"github.com/bryanwahyu/wireframe-extract/internal/domain/screenshots"
)

// Service runs the screenshot analysis use-cases.
// Runs are strictly sequential: one outstanding model call, no goroutines.
type Service struct {
	Locator        screenshots.Locator
	ProjectLocator screenshots.Locator // recursive scan for project runs, falls back to Locator
	Client         domain.VisionClient
	Prompts        domain.PromptBuilder
	Writer         domain.Writer
	Repo           domain.Repository    // optional
	Errors         runerrors.Repository // optional
	Artifacts      domain.ArtifactStore // optional
	Clock          application.Clock
	Params         domain.Params
	Pricing        domain.PricingTable
}

// ErrNoRepository is returned by the query use-cases when no database is wired
var ErrNoRepository = errors.New("analysis repository not configured")

//
// ==== USE CASES ====
//

// AnalyzeCommand single-subject run (image, feature or screen mode)
type AnalyzeCommand struct {
	RunID     string // generated when empty
	TenantID  string
	Mode      domain.Mode
	Subject   string // defaults to the title-cased folder name
	Folder    string
	OutputDir string
}

// ProjectCommand three-stage project run
type ProjectCommand struct {
	RunID     string
	TenantID  string
	Feature   string // defaults to the folder name
	Folder    string
	OutputDir string
}

// Analyze scans Folder, sends one request and writes <slug>-analysis.{json,text} to OutputDir
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Result, []string, error) {
	runID := orNewID(cmd.RunID)
	mode := cmd.Mode
	subject := strings.TrimSpace(cmd.Subject)
	if subject == "" {
		subject = domain.DisplayName(cmd.Folder)
	}
	if !mode.Valid() || mode == domain.ModeProject {
		return nil, nil, s.fail(ctx, cmd.TenantID, runID, mode, domain.StagePrompt,
			fmt.Errorf("unsupported mode %q for single-subject analysis", mode))
	}

	files, err := s.Locator.Scan(cmd.Folder)
	if err != nil {
		return nil, nil, s.fail(ctx, cmd.TenantID, runID, mode, domain.StageScan, err)
	}
	if mode == domain.ModeImage {
		files = files[:1]
	}

	prompt, err := s.Prompts.ForMode(mode, subject, len(files))
	if err != nil {
		return nil, nil, s.fail(ctx, cmd.TenantID, runID, mode, domain.StagePrompt, err)
	}

	log.Printf("run=%s stage=%s mode=%s subject=%q images=%d model=%s", runID, domain.StageAnalyze, mode, subject, len(files), s.Params.Model)
	resp, err := s.call(ctx, prompt, files)
	if err != nil {
		return nil, nil, s.fail(ctx, cmd.TenantID, runID, mode, domain.StageAnalyze, err)
	}

	res := s.newResult(runID, mode, subject, cmd.Folder, files, resp.Text, modelOf(resp, s.Params.Model), s.priced(resp))
	paths, err := s.Writer.WriteResult(cmd.OutputDir, res)
	if err != nil {
		return nil, nil, s.fail(ctx, cmd.TenantID, runID, mode, domain.StagePersist, err)
	}
	if err := s.upload(ctx, cmd.TenantID, mode, subject, paths); err != nil {
		return res, paths, s.fail(ctx, cmd.TenantID, runID, mode, domain.StageUpload, err)
	}
	if err := s.record(ctx, cmd.TenantID, res); err != nil {
		return res, paths, s.fail(ctx, cmd.TenantID, runID, mode, domain.StageRecord, err)
	}

	log.Printf("run=%s status=done subject=%q tokens=%d outputs=%d", runID, subject, res.Metadata.TokensUsed, len(paths))
	return res, paths, nil
}

// AnalyzeProject runs ScanImages -> PatternExtraction (one call per image) ->
// WireframeGeneration -> WireframeRefinement -> PersistOutputs.
// On a model stage failure only the debug record is written.
func (s *Service) AnalyzeProject(ctx context.Context, cmd ProjectCommand) (*domain.ProjectResult, error) {
	runID := orNewID(cmd.RunID)
	feature := strings.TrimSpace(cmd.Feature)
	if feature == "" {
		feature = filepath.Base(filepath.Clean(cmd.Folder))
	}
	featureContext := domain.DisplayName(feature)

	locator := s.ProjectLocator
	if locator == nil {
		locator = s.Locator
	}
	files, err := locator.Scan(cmd.Folder)
	if err != nil {
		return nil, s.fail(ctx, cmd.TenantID, runID, domain.ModeProject, domain.StageScan, err)
	}

	now := s.Clock.Now()
	debug := &domain.DebugRecord{
		Metadata: domain.DebugMetadata{
			FeatureContext:    featureContext,
			SourceImages:      screenshots.Paths(files),
			AnalysisTimestamp: now,
			AIModel:           s.Params.Model,
		},
	}
	abort := func(stage string, err error) error {
		debug.FailedStage = stage
		debug.Error = err.Error()
		if _, derr := s.Writer.WriteDebug(cmd.OutputDir, feature, debug); derr != nil {
			log.Printf("run=%s debug write failed: %v", runID, derr)
		}
		return s.fail(ctx, cmd.TenantID, runID, domain.ModeProject, stage, err)
	}

	var usage domain.Usage
	model := s.Params.Model

	// stage 1: one call per screenshot, in sorted order
	for i, f := range files {
		log.Printf("run=%s stage=%s image=%s (%d/%d)", runID, domain.StagePatternExtraction, f.Name, i+1, len(files))
		resp, err := s.call(ctx, s.Prompts.PatternExtraction(featureContext, i+1, len(files)), files[i:i+1])
		if err != nil {
			return nil, abort(domain.StagePatternExtraction, fmt.Errorf("%s: %w", f.Name, err))
		}
		usage = usage.Add(s.priced(resp))
		model = modelOf(resp, model)
		debug.PatternAnalyses = append(debug.PatternAnalyses, domain.PatternAnalysis{
			ImageName: f.Name,
			ImagePath: f.Path,
			Analysis:  resp.Text,
		})
	}

	// stage 2: combined wireframe from every pattern analysis
	log.Printf("run=%s stage=%s patterns=%d", runID, domain.StageWireframeGeneration, len(debug.PatternAnalyses))
	resp, err := s.call(ctx, s.Prompts.WireframeGeneration(featureContext, debug.PatternAnalyses), nil)
	if err != nil {
		return nil, abort(domain.StageWireframeGeneration, err)
	}
	usage = usage.Add(s.priced(resp))
	model = modelOf(resp, model)
	debug.InitialWireframe = resp.Text

	// stage 3: refine the exact stage 2 text
	log.Printf("run=%s stage=%s", runID, domain.StageWireframeRefinement)
	resp, err = s.call(ctx, s.Prompts.WireframeRefinement(debug.InitialWireframe), nil)
	if err != nil {
		return nil, abort(domain.StageWireframeRefinement, err)
	}
	usage = usage.Add(s.priced(resp))
	model = modelOf(resp, model)
	debug.RefinedWireframe = resp.Text

	res := s.newResult(runID, domain.ModeProject, featureContext, cmd.Folder, files, resp.Text, model, usage)
	res.GeneratedAt = now
	project := &domain.ProjectResult{
		Result:           res,
		FeatureContext:   featureContext,
		PatternAnalyses:  debug.PatternAnalyses,
		InitialWireframe: debug.InitialWireframe,
	}

	outputs, err := s.persistProject(cmd.OutputDir, feature, project, debug, len(files))
	project.Outputs = outputs
	if err != nil {
		return nil, abort(domain.StagePersist, err)
	}
	if err := s.upload(ctx, cmd.TenantID, domain.ModeProject, feature, outputs); err != nil {
		return project, s.fail(ctx, cmd.TenantID, runID, domain.ModeProject, domain.StageUpload, err)
	}
	if err := s.record(ctx, cmd.TenantID, res); err != nil {
		return project, s.fail(ctx, cmd.TenantID, runID, domain.ModeProject, domain.StageRecord, err)
	}

	log.Printf("run=%s status=done feature=%q images=%d tokens=%d outputs=%d", runID, feature, len(files), usage.TotalTokens, len(outputs))
	return project, nil
}

// Get one stored analysis; nil when missing
func (s *Service) Get(ctx context.Context, tenant, id string) (*domain.Result, error) {
	if s.Repo == nil {
		return nil, ErrNoRepository
	}
	return s.Repo.Get(ctx, tenant, id)
}

// List stored analyses, newest first
func (s *Service) List(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Result, error) {
	if s.Repo == nil {
		return nil, ErrNoRepository
	}
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

// RunErrors recorded for one run
func (s *Service) RunErrors(ctx context.Context, tenant, runID string, limit int) ([]*runerrors.RunError, error) {
	if s.Errors == nil {
		return nil, ErrNoRepository
	}
	return s.Errors.ListByRun(ctx, tenant, runID, limit)
}

func (s *Service) persistProject(dir, feature string, p *domain.ProjectResult, debug *domain.DebugRecord, images int) ([]string, error) {
	var outputs []string
	at := p.Result.GeneratedAt

	for _, pa := range p.PatternAnalyses {
		path, err := s.Writer.WriteDSL(dir, domain.DSLName(pa.ImageName), domain.DSLHeader{
			Title:            strings.TrimSuffix(pa.ImageName, filepath.Ext(pa.ImageName)),
			FeatureContext:   p.FeatureContext,
			Method:           "Per-screenshot pattern extraction",
			ScreenshotsCount: 1,
			GeneratedAt:      at,
		}, pa.Analysis)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, path)
	}

	path, err := s.Writer.WriteDSL(dir, domain.WireframeFile, domain.DSLHeader{
		Title:            p.FeatureContext,
		FeatureContext:   p.FeatureContext,
		ScreenshotsCount: images,
		GeneratedAt:      at,
	}, p.Result.AnalysisText)
	if err != nil {
		return outputs, err
	}
	outputs = append(outputs, path)

	paths, err := s.Writer.WriteResult(dir, p.Result)
	outputs = append(outputs, paths...)
	if err != nil {
		return outputs, err
	}

	p.Outputs = outputs
	path, err = s.Writer.WriteSummary(dir, p)
	if err != nil {
		return outputs, err
	}
	outputs = append(outputs, path)

	path, err = s.Writer.WriteDebug(dir, feature, debug)
	if err != nil {
		return outputs, err
	}
	return append(outputs, path), nil
}

// call builds a fresh request for one model call
func (s *Service) call(ctx context.Context, prompt string, files []screenshots.ImageFileInfo) (domain.Response, error) {
	req := domain.Request{
		Images: refs(files),
		Prompt: prompt,
		System: s.Prompts.System(),
		Params: s.Params,
	}
	return s.Client.Analyze(ctx, req)
}

// priced fills in the cost estimate when the client did not
func (s *Service) priced(resp domain.Response) domain.Usage {
	u := resp.Usage
	if u.CostUSD == nil && s.Pricing != nil {
		u.CostUSD = s.Pricing.Cost(modelOf(resp, s.Params.Model), u)
	}
	return u
}

func (s *Service) newResult(id string, mode domain.Mode, subject, folder string, files []screenshots.ImageFileInfo, text, model string, u domain.Usage) *domain.Result {
	names := screenshots.Names(files)
	return &domain.Result{
		ID:             id,
		SubjectName:    subject,
		FolderPath:     folder,
		ImagesAnalyzed: names,
		AnalysisText:   text,
		Provider:       s.Client.Provider(),
		ModelUsed:      model,
		GeneratedAt:    s.Clock.Now(),
		Metadata: domain.Metadata{
			TotalImages:      len(names),
			ImageFiles:       names,
			AnalysisType:     mode,
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TokensUsed:       u.TotalTokens,
			CostEstimateUSD:  u.CostUSD,
		},
	}
}

func (s *Service) upload(ctx context.Context, tenant string, mode domain.Mode, subject string, paths []string) error {
	if s.Artifacts == nil {
		return nil
	}
	for _, p := range paths {
		url, err := s.Artifacts.Upload(ctx, p, domain.ArtifactKey(tenant, mode, subject, p))
		if err != nil {
			return err
		}
		log.Printf("uploaded %s -> %s", filepath.Base(p), url)
	}
	return nil
}

func (s *Service) record(ctx context.Context, tenant string, r *domain.Result) error {
	if s.Repo == nil {
		return nil
	}
	return s.Repo.Save(ctx, tenant, r)
}

// fail wraps err with its stage and records it when an error repository is wired
func (s *Service) fail(ctx context.Context, tenant, runID string, mode domain.Mode, stage string, err error) error {
	se := &domain.StageError{Stage: stage, Err: err}
	log.Printf("run=%s mode=%s stage=%s status=failed error=%v", runID, mode, stage, err)
	if s.Errors == nil {
		return se
	}

	details, _ := json.Marshal(map[string]string{"error": err.Error()})
	rec := &runerrors.RunError{
		TenantID:    tenant,
		RunID:       runID,
		Mode:        string(mode),
		Stage:       stage,
		Message:     se.Error(),
		DetailsJSON: string(details),
		CreatedAt:   s.Clock.Now(),
	}
	// the run's own ctx may already be canceled
	if rerr := s.Errors.Save(context.WithoutCancel(ctx), rec); rerr != nil {
		log.Printf("run=%s failed to record error: %v", runID, rerr)
	}
	return se
}

func refs(files []screenshots.ImageFileInfo) []domain.ImageRef {
	if len(files) == 0 {
		return nil
	}
	out := make([]domain.ImageRef, 0, len(files))
	for _, f := range files {
		out = append(out, domain.ImageRef{Name: f.Name, Path: f.Path, MIMEType: screenshots.MIMEType(f.Name)})
	}
	return out
}

func modelOf(resp domain.Response, fallback string) string {
	if resp.Model != "" {
		return resp.Model
	}
	return fallback
}

func orNewID(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.New().String()
}
