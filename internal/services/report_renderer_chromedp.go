package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; margin: 0; }
  h1 { font-size: 16pt; }
  h2 { font-size: 12pt; margin-top: 18pt; }
  p { margin: 0 0 4pt 0; }
  .section { margin-bottom: 12pt; }
  table { border-collapse: collapse; width: 100%; font-size: 8pt; }
  th, td { border: 0.5pt solid #000; padding: 3pt; text-align: center; }
  th { background: #808080; color: #f5f5f5; font-weight: bold; }
  tr:nth-child(even) td { background: #ebebeb; }
  .empty { font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}<div class="section">{{range .}}<p>{{.}}</p>
{{end}}</div>
{{end}}{{if .Header}}<h2>{{.TableHeading}}</h2>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{else}}<p class="empty">{{.NoTableData}}</p>
{{end}}</body>
</html>
`))

type reportView struct {
	Title        string
	TableHeading string
	NoTableData  string
	Sections     [][]string
	Header       []string
	Rows         [][]string
}

// BuildReportHTML produces the HTML document printed by the chromedp renderer.
func BuildReportHTML(report *Report) (string, error) {
	table := report.Table.Normalize()
	view := reportView{
		Title:        ReportTitle,
		TableHeading: TableHeading,
		NoTableData:  NoTableDataNotice,
		Header:       table.Header(),
		Rows:         table.Body(),
	}
	for _, section := range report.Sections {
		var paragraphs []string
		for _, line := range strings.Split(section, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paragraphs = append(paragraphs, line)
			}
		}
		view.Sections = append(view.Sections, paragraphs)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to build report html: %w", err)
	}
	return buf.String(), nil
}

// chromedpRenderer prints the HTML report with headless Chrome.
type chromedpRenderer struct {
	chromePath string
	timeout    time.Duration
}

func NewChromedpRenderer(chromePath string) ReportRenderer {
	return &chromedpRenderer{chromePath: chromePath, timeout: 60 * time.Second}
}

func (r *chromedpRenderer) Render(ctx context.Context, report *Report) ([]byte, error) {
	html, err := BuildReportHTML(report)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "autorank-report-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "report.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report html: %w", err)
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// Letter: 8.5in x 11in
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}
	return pdfBuf, nil
}
