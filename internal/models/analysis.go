package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisRequest struct {
	Resumes        []*UploadedResume
	JobDescription string

	// MaxResumes is the cap chosen by the user. Zero means use the configured default.
	MaxResumes int

	// SkipRender leaves ReportPDF empty for callers that only want text.
	SkipRender bool
}

type AnalysisResult struct {
	ID             uuid.UUID
	Resumes        []*UploadedResume
	Analysis       string
	Sections       []string
	Table          [][]string
	ReportPDF      []byte
	ReportFilename string
	CandidateCount int
	Duration       time.Duration
	CreatedAt      time.Time
}
