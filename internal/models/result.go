package models

type AnalyzeResponse struct {
	ID             string      `json:"id"`
	CandidateCount int         `json:"candidate_count"`
	Analysis       string      `json:"analysis"`
	Sections       []string    `json:"sections"`
	Table          [][]string  `json:"table"`
	Candidates     []Candidate `json:"candidates"`
	ReportFilename string      `json:"report_filename"`
	ReportPDF      []byte      `json:"report_pdf"`
	DurationMS     int64       `json:"duration_ms"`
}

type Candidate struct {
	Index            int    `json:"index"`
	OriginalFileName string `json:"original_filename"`
	Characters       int    `json:"characters"`
}

type ReportRequest struct {
	Analysis string `json:"analysis"`
	Format   string `json:"format"`
}

type WarningResponse struct {
	Warning string `json:"warning"`
}
