package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/autorank-cv/internal/config"
	"alfredoptarigan/autorank-cv/internal/models"
)

// AnalyzerService runs one ranking request end to end: validate, extract,
// assemble the prompt, call the model once, then format and render the report.
type AnalyzerService interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
	MaxResumes(requested int) int
}

type analyzerService struct {
	pdfParser      PDFParserService
	promptBuilder  *PromptBuilder
	completion     CompletionService
	renderer       ReportRenderer
	defaultMax     int
	maxLimit       int
	reportFilename string
}

func NewAnalyzerService(
	cfg *config.Config,
	pdfParser PDFParserService,
	completion CompletionService,
	renderer ReportRenderer,
) AnalyzerService {
	return &analyzerService{
		pdfParser:      pdfParser,
		promptBuilder:  NewPromptBuilder(cfg.Analysis.ResumeCharLimit),
		completion:     completion,
		renderer:       renderer,
		defaultMax:     cfg.Analysis.DefaultMaxResumes,
		maxLimit:       cfg.Analysis.MaxResumesLimit,
		reportFilename: cfg.Report.Filename,
	}
}

// MaxResumes resolves the cap for one request: the user's choice clamped to
// [1, limit], or the configured default when nothing was chosen.
func (a *analyzerService) MaxResumes(requested int) int {
	if requested <= 0 {
		return a.defaultMax
	}
	if requested > a.maxLimit {
		return a.maxLimit
	}
	return requested
}

// validate checks the request before any extraction or completion call.
func (a *analyzerService) validate(req *models.AnalysisRequest) error {
	if len(req.Resumes) == 0 {
		return ErrNoResumes
	}

	if maxResumes := a.MaxResumes(req.MaxResumes); len(req.Resumes) > maxResumes {
		return fmt.Errorf("%w: you selected %d but uploaded %d. Please upload only the number you selected",
			ErrTooManyResumes, maxResumes, len(req.Resumes))
	}

	if strings.TrimSpace(req.JobDescription) == "" {
		return ErrEmptyJobDescription
	}

	return nil
}

func (a *analyzerService) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	if err := a.validate(req); err != nil {
		return nil, err
	}

	started := time.Now()
	analysisID := uuid.New()
	logger := log.With().Str("analysis_id", analysisID.String()).Logger()
	logger.Info().Int("resumes", len(req.Resumes)).Msg("starting analysis")

	// One file at a time, in upload order.
	texts := make([]string, 0, len(req.Resumes))
	for i, resume := range req.Resumes {
		resume.Index = i + 1
		if resume.Text == "" {
			resume.Text = a.pdfParser.ExtractText(resume.Data)
		}
		logger.Debug().
			Int("candidate", resume.Index).
			Str("file", resume.OriginalFileName).
			Int("characters", resume.CharCount()).
			Msg("resume text extracted")
		texts = append(texts, resume.Text)
	}

	prompt := a.promptBuilder.BuildRankingPrompt(texts, req.JobDescription)
	logger.Debug().Int("prompt_length", len(prompt)).Msg("prompt assembled")

	response, err := a.completion.Complete(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		return nil, fmt.Errorf("failed to analyze resumes: %w", err)
	}
	logger.Info().Int("response_length", len(response)).Msg("completion received")

	report := FormatReport(response)

	var reportPDF []byte
	if !req.SkipRender {
		reportPDF, err = a.renderer.Render(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("failed to render report: %w", err)
		}
	}

	result := &models.AnalysisResult{
		ID:             analysisID,
		Resumes:        req.Resumes,
		Analysis:       response,
		Sections:       report.Sections,
		Table:          report.Table,
		ReportPDF:      reportPDF,
		ReportFilename: a.reportFilename,
		CandidateCount: len(req.Resumes),
		Duration:       time.Since(started),
		CreatedAt:      started,
	}

	logger.Info().Dur("duration", result.Duration).Msg("analysis completed")
	return result, nil
}
