package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/autorank-cv/internal/models"
	"alfredoptarigan/autorank-cv/internal/services"
)

type AnalyzeHandler struct {
	analyzer    services.AnalyzerService
	maxFileSize int64
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze and returns the analysis as JSON with
// the rendered report embedded (base64).
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		return respondError(c, err)
	}

	candidates := make([]models.Candidate, 0, result.CandidateCount)
	for _, resume := range result.Resumes {
		candidates = append(candidates, models.Candidate{
			Index:            resume.Index,
			OriginalFileName: resume.OriginalFileName,
			Characters:       resume.CharCount(),
		})
	}

	return c.JSON(models.AnalyzeResponse{
		ID:             result.ID.String(),
		CandidateCount: result.CandidateCount,
		Analysis:       result.Analysis,
		Sections:       result.Sections,
		Table:          result.Table,
		Candidates:     candidates,
		ReportFilename: result.ReportFilename,
		ReportPDF:      result.ReportPDF,
		DurationMS:     result.Duration.Milliseconds(),
	})
}

// HandleAnalyzeReport handles POST /analyze/report and streams the PDF back
// as a download.
func (h *AnalyzeHandler) HandleAnalyzeReport(c *fiber.Ctx) error {
	result, err := h.analyze(c)
	if err != nil {
		return respondError(c, err)
	}

	c.Attachment(result.ReportFilename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(result.ReportPDF)
}

func (h *AnalyzeHandler) analyze(c *fiber.Ctx) (*models.AnalysisResult, error) {
	req, err := h.parseRequest(c)
	if err != nil {
		return nil, err
	}
	return h.analyzer.Analyze(c.UserContext(), req)
}

func (h *AnalyzeHandler) parseRequest(c *fiber.Ctx) (*models.AnalysisRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse multipart form", services.ErrInvalidUpload)
	}

	req := &models.AnalysisRequest{
		JobDescription: firstValue(form.Value["job_description"]),
	}

	if raw := strings.TrimSpace(firstValue(form.Value["max_resumes"])); raw != "" {
		maxResumes, err := strconv.Atoi(raw)
		if err != nil || maxResumes < 1 {
			return nil, fmt.Errorf("%w: max_resumes must be a positive number", services.ErrInvalidUpload)
		}
		req.MaxResumes = maxResumes
	}

	files := form.File["resumes"]
	if maxResumes := h.analyzer.MaxResumes(req.MaxResumes); len(files) > maxResumes {
		return nil, fmt.Errorf("%w: you selected %d but uploaded %d. Please upload only the number you selected",
			services.ErrTooManyResumes, maxResumes, len(files))
	}

	for i, file := range files {
		resume, err := services.ReadUpload(file, i+1, h.maxFileSize)
		if err != nil {
			return nil, err
		}
		req.Resumes = append(req.Resumes, resume)
	}

	return req, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// respondError maps service errors onto HTTP responses. Validation problems
// are warnings the user can fix and resubmit.
func respondError(c *fiber.Ctx, err error) error {
	if services.IsValidationError(err) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.WarningResponse{
			Warning: err.Error(),
		})
	}

	var completionErr *services.CompletionError
	if errors.As(err, &completionErr) {
		log.Error().Err(err).Str("provider", completionErr.Provider).Msg("completion endpoint failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": completionErr.Error(),
			"code":  fiber.StatusBadGateway,
		})
	}

	log.Error().Err(err).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
		"code":  fiber.StatusInternalServerError,
	})
}
