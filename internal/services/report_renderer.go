package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/autorank-cv/internal/config"
)

const (
	ReportTitle       = "Candidate Evaluation Report"
	TableHeading      = "Final Summary Table"
	NoTableDataNotice = "No table data found."
)

// ReportRenderer lays out a formatted Report as a PDF document.
type ReportRenderer interface {
	Render(ctx context.Context, report *Report) ([]byte, error)
}

func NewReportRenderer(kind, chromePath string) (ReportRenderer, error) {
	switch kind {
	case config.RendererNative, "":
		return NewNativeRenderer(), nil
	case config.RendererChromedp:
		return NewChromedpRenderer(chromePath), nil
	default:
		return nil, fmt.Errorf("unsupported report renderer: %s", kind)
	}
}

type rgb struct{ r, g, b int }

var (
	headerFill = rgb{128, 128, 128}
	headerText = rgb{245, 245, 245}
	bodyText   = rgb{0, 0, 0}
	stripeFill = rgb{235, 235, 235}
	plainFill  = rgb{255, 255, 255}
	gridColor  = rgb{0, 0, 0}
)

// nativeRenderer draws the report with fpdf core fonts. Text is translated
// to cp1252 so the bullet glyph survives.
type nativeRenderer struct {
	pageSize   string
	margin     float64
	lineHeight float64
	cellHeight float64
	cellPad    float64
}

func NewNativeRenderer() ReportRenderer {
	return &nativeRenderer{
		pageSize:   "Letter",
		margin:     14,
		lineHeight: 5.5,
		cellHeight: 4.5,
		cellPad:    1.5,
	}
}

func (n *nativeRenderer) Render(ctx context.Context, report *Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", n.pageSize, "")
	pdf.SetMargins(n.margin, n.margin, n.margin)
	pdf.SetAutoPageBreak(true, n.margin)
	pdf.SetTitle(ReportTitle, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(ReportTitle), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, section := range report.Sections {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			pdf.MultiCell(0, n.lineHeight, tr(line), "", "L", false)
		}
		pdf.Ln(n.lineHeight)
	}

	table := report.Table.Normalize()
	if table.IsEmpty() {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 8, tr(NoTableDataNotice), "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(TableHeading), "", 1, "L", false, 0, "")
		pdf.Ln(1)
		n.drawTable(pdf, tr, table)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func (n *nativeRenderer) drawTable(pdf *fpdf.Fpdf, tr func(string) string, table SummaryTable) {
	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	columns := len(table.Header())
	colWidth := (pageWidth - left - right) / float64(columns)

	pdf.SetDrawColor(gridColor.r, gridColor.g, gridColor.b)
	pdf.SetLineWidth(0.2)

	for rowIndex, row := range table {
		fill, text, style := plainFill, bodyText, ""
		switch {
		case rowIndex == 0:
			fill, text, style = headerFill, headerText, "B"
		case rowIndex%2 == 0:
			fill = stripeFill
		}
		pdf.SetFont("Helvetica", style, 8)

		wrapped := make([][]string, columns)
		maxLines := 1
		for i, cell := range row {
			wrapped[i] = splitCell(pdf, tr(cell), colWidth-2*n.cellPad)
			if len(wrapped[i]) > maxLines {
				maxLines = len(wrapped[i])
			}
		}
		rowHeight := float64(maxLines)*n.cellHeight + 2*n.cellPad

		y := pdf.GetY()
		if y+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			y = pdf.GetY()
		}

		pdf.SetFillColor(fill.r, fill.g, fill.b)
		pdf.SetTextColor(text.r, text.g, text.b)
		for i := range row {
			x := left + float64(i)*colWidth
			pdf.Rect(x, y, colWidth, rowHeight, "FD")

			lines := wrapped[i]
			top := y + (rowHeight-float64(len(lines))*n.cellHeight)/2
			for j, line := range lines {
				pdf.SetXY(x, top+float64(j)*n.cellHeight)
				pdf.CellFormat(colWidth, n.cellHeight, line, "", 0, "C", false, 0, "")
			}
		}
		pdf.SetXY(left, y+rowHeight)
	}

	pdf.SetTextColor(bodyText.r, bodyText.g, bodyText.b)
}

// splitCell wraps translated (cp1252) text to the cell width with the
// byte-based SplitLines.
func splitCell(pdf *fpdf.Fpdf, text string, width float64) []string {
	var lines []string
	for _, line := range pdf.SplitLines([]byte(strings.TrimSpace(text)), width) {
		lines = append(lines, string(line))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
