package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"alfredoptarigan/autorank-cv/internal/config"
	"alfredoptarigan/autorank-cv/internal/models"
	"alfredoptarigan/autorank-cv/internal/services"
)

type rankOptions struct {
	jobDescriptionFile string
	jobDescription     string
	maxResumes         int
	out                string
	text               bool
}

func newRootCmd() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank [flags] resume.pdf...",
		Short: "Rank resumes against a job description",
		Long: `rank extracts the text of each resume, asks the configured completion
model to compare them against the job description, prints the analysis and
writes the report to disk.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			config.InitLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runRank(ctx, cfg, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.jobDescriptionFile, "job-description-file", "f", "", "file holding the job description")
	cmd.Flags().StringVarP(&opts.jobDescription, "job-description", "j", "", "job description text")
	cmd.Flags().IntVarP(&opts.maxResumes, "max", "n", 0, "maximum number of resumes (defaults to MAX_RESUMES)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "report output path (defaults to REPORT_FILENAME)")
	cmd.Flags().BoolVar(&opts.text, "text", false, "write a plain text report instead of a PDF")
	cmd.MarkFlagsMutuallyExclusive("job-description-file", "job-description")

	return cmd
}

func runRank(ctx context.Context, cfg *config.Config, opts *rankOptions, paths []string, stdout io.Writer) error {
	jobDescription, err := resolveJobDescription(opts)
	if err != nil {
		return err
	}

	renderer, err := services.NewReportRenderer(cfg.Report.Renderer, cfg.Report.ChromePath)
	if err != nil {
		return err
	}
	analyzer := services.NewAnalyzerService(
		cfg,
		services.NewPDFParserService(),
		services.NewCompletionService(cfg.Completion),
		renderer,
	)

	// Checked before any file is read.
	if maxResumes := analyzer.MaxResumes(opts.maxResumes); len(paths) > maxResumes {
		return fmt.Errorf("%w: you selected %d but passed %d files",
			services.ErrTooManyResumes, maxResumes, len(paths))
	}

	resumes, err := loadResumes(paths)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, &models.AnalysisRequest{
		Resumes:        resumes,
		JobDescription: jobDescription,
		MaxResumes:     opts.maxResumes,
		SkipRender:     opts.text,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, result.Analysis)

	out, data := reportOutput(cfg, opts, result)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().
		Str("analysis_id", result.ID.String()).
		Int("candidates", result.CandidateCount).
		Str("report", out).
		Msg("✅ Report written")
	return nil
}

func resolveJobDescription(opts *rankOptions) (string, error) {
	if opts.jobDescriptionFile == "" {
		return opts.jobDescription, nil
	}
	data, err := os.ReadFile(opts.jobDescriptionFile)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	return string(data), nil
}

// loadResumes reads local files in argument order. Only the extension is
// checked here; unreadable PDFs still go through extraction and end up as an
// error marker in the prompt.
func loadResumes(paths []string) ([]*models.UploadedResume, error) {
	resumes := make([]*models.UploadedResume, 0, len(paths))
	for i, path := range paths {
		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil, fmt.Errorf("%w: %s is not a PDF", services.ErrInvalidUpload, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		resumes = append(resumes, &models.UploadedResume{
			Index:            i + 1,
			OriginalFileName: filepath.Base(path),
			Data:             data,
		})
	}
	return resumes, nil
}

func reportOutput(cfg *config.Config, opts *rankOptions, result *models.AnalysisResult) (string, []byte) {
	out := opts.out
	if out == "" {
		out = cfg.Report.Filename
	}

	if !opts.text {
		return out, result.ReportPDF
	}

	if opts.out == "" {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".txt"
	}
	return out, []byte(services.FormatReport(result.Analysis).PlainText())
}
