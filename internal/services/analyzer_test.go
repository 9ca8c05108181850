package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/autorank-cv/internal/config"
	"alfredoptarigan/autorank-cv/internal/models"
)

const rankedResponse = `### Candidate 1: Alice Smith
**Overall:** Strong backend experience with Go.

---

### Candidate 2: Bob Jones
**Overall:** Solid Java engineer, less cloud exposure.

## Final Summary Table
| Rank | Candidate | Final Score |
|------|-----------|-------------|
| 1 | Alice Smith | 8.6 |
| 2 | Bob Jones | 7.1 |
`

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) Render(ctx context.Context, report *Report) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-stub"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			DefaultMaxResumes: 3,
			MaxResumesLimit:   5,
			ResumeCharLimit:   50,
		},
		Report: config.ReportConfig{Filename: "ranked_resume_summary.pdf"},
	}
}

func resumes(texts ...string) []*models.UploadedResume {
	out := make([]*models.UploadedResume, 0, len(texts))
	for i, text := range texts {
		out = append(out, &models.UploadedResume{
			OriginalFileName: fmt.Sprintf("resume_%d.pdf", i+1),
			Text:             text,
		})
	}
	return out
}

func TestAnalyze_EndToEnd(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	renderer := &stubRenderer{}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, renderer)

	result, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes("Alice Smith, Go developer", "Bob Jones, Java developer"),
		JobDescription: "Senior Backend Engineer",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), completion.calls.Load())
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 2, result.CandidateCount)
	assert.Equal(t, rankedResponse, result.Analysis)
	assert.Contains(t, result.Analysis, "Alice Smith")
	assert.Contains(t, result.Analysis, "Bob Jones")
	assert.Equal(t, [][]string{
		{"Rank", "Candidate", "Final Score"},
		{"1", "Alice Smith", "8.6"},
		{"2", "Bob Jones", "7.1"},
	}, result.Table)
	assert.Len(t, result.Sections, 2)
	assert.Equal(t, []byte("%PDF-stub"), result.ReportPDF)
	assert.Equal(t, "ranked_resume_summary.pdf", result.ReportFilename)
	assert.NotEmpty(t, result.ID.String())

	require.Len(t, completion.prompts, 1)
	prompt := completion.prompts[0]
	assert.Contains(t, prompt, "Senior Backend Engineer")
	assert.Less(t, strings.Index(prompt, "Candidate 1 Resume:\nAlice Smith"), strings.Index(prompt, "Candidate 2 Resume:\nBob Jones"))
}

func TestAnalyze_ExtractsPDFDataSequentially(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, &stubRenderer{})

	req := &models.AnalysisRequest{
		Resumes: []*models.UploadedResume{
			{OriginalFileName: "a.pdf", Data: makeTestPDF(t, "Alice Smith")},
			{OriginalFileName: "broken.pdf", Data: []byte("not a pdf")},
		},
		JobDescription: "Backend Engineer",
	}

	_, err := analyzer.Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, req.Resumes[0].Index)
	assert.Equal(t, 2, req.Resumes[1].Index)
	assert.Contains(t, req.Resumes[0].Text, "Alice Smith")
	assert.Contains(t, req.Resumes[1].Text, "[Error reading PDF:")
	assert.Contains(t, completion.prompts[0], "Candidate 2 Resume:\n[Error reading PDF:")
}

func TestAnalyze_TruncatesEachResume(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, &stubRenderer{})

	long := strings.Repeat("a", 50) + strings.Repeat("b", 50)
	_, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes(long),
		JobDescription: "Engineer",
	})

	require.NoError(t, err)
	prompt := completion.prompts[0]
	assert.Contains(t, prompt, "Candidate 1 Resume:\n"+strings.Repeat("a", 50)+"\n")
	assert.NotContains(t, prompt, "aaab")
}

func TestAnalyze_MaxBoundary(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		maxResumes int
		wantErr    error
	}{
		{name: "default cap exactly", count: 3, maxResumes: 0},
		{name: "default cap plus one", count: 4, maxResumes: 0, wantErr: ErrTooManyResumes},
		{name: "chosen cap exactly", count: 2, maxResumes: 2},
		{name: "chosen cap plus one", count: 3, maxResumes: 2, wantErr: ErrTooManyResumes},
		{name: "chosen cap above limit is clamped", count: 6, maxResumes: 100, wantErr: ErrTooManyResumes},
		{name: "limit exactly", count: 5, maxResumes: 100},
		{name: "no resumes", count: 0, maxResumes: 0, wantErr: ErrNoResumes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completion := &fakeCompletion{responses: []string{rankedResponse}}
			analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, &stubRenderer{})

			texts := make([]string, tt.count)
			for i := range texts {
				texts[i] = fmt.Sprintf("Candidate text %d", i)
			}

			_, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
				Resumes:        resumes(texts...),
				JobDescription: "Engineer",
				MaxResumes:     tt.maxResumes,
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
				assert.Equal(t, int32(0), completion.calls.Load(), "completion must not be invoked")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int32(1), completion.calls.Load())
		})
	}
}

func TestAnalyze_BlankJobDescription(t *testing.T) {
	for _, jd := range []string{"", "   ", "\n\t"} {
		completion := &fakeCompletion{responses: []string{rankedResponse}}
		parser := &countingParser{}
		analyzer := NewAnalyzerService(testConfig(), parser, completion, &stubRenderer{})

		_, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
			Resumes:        []*models.UploadedResume{{OriginalFileName: "a.pdf", Data: []byte("%PDF")}},
			JobDescription: jd,
		})

		require.ErrorIs(t, err, ErrEmptyJobDescription)
		assert.Equal(t, int32(0), completion.calls.Load())
		assert.Equal(t, 0, parser.calls, "no extraction before validation passes")
	}
}

func TestAnalyze_CompletionFailurePropagates(t *testing.T) {
	completion := &fakeCompletion{errs: []error{&CompletionError{Provider: "fake", Err: errors.New("unauthorized")}}}
	renderer := &stubRenderer{}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, renderer)

	_, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes("Alice"),
		JobDescription: "Engineer",
	})

	require.Error(t, err)
	var completionErr *CompletionError
	assert.True(t, errors.As(err, &completionErr))
	assert.False(t, IsValidationError(err))
	assert.Equal(t, 0, renderer.calls)
}

func TestAnalyze_RendererFailure(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, &stubRenderer{err: errors.New("chrome not found")})

	_, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes("Alice"),
		JobDescription: "Engineer",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
}

func TestAnalyze_SkipRender(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	renderer := &stubRenderer{}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, renderer)

	result, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes("Alice", "Bob"),
		JobDescription: "Engineer",
		SkipRender:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, renderer.calls)
	assert.Nil(t, result.ReportPDF)
	assert.Len(t, result.Table, 3)
}

func TestAnalyze_WithNativeRenderer(t *testing.T) {
	completion := &fakeCompletion{responses: []string{rankedResponse}}
	analyzer := NewAnalyzerService(testConfig(), NewPDFParserService(), completion, NewNativeRenderer())

	result, err := analyzer.Analyze(context.Background(), &models.AnalysisRequest{
		Resumes:        resumes("Alice", "Bob"),
		JobDescription: "Senior Backend Engineer",
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.ReportPDF, []byte("%PDF-")))
}

type countingParser struct {
	calls int
}

func (c *countingParser) ExtractText(data []byte) string {
	c.calls++
	return "text"
}

func (c *countingParser) ExtractTextFromFile(filePath string) string {
	c.calls++
	return "text"
}
