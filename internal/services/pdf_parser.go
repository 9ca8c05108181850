package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

const pdfErrorMarker = "[Error reading PDF: %s]"

// PDFParserService turns résumé PDFs into plain text. Parse failures are
// never returned as errors: the text read so far is kept and an inline
// "[Error reading PDF: ...]" marker is appended, so an unreadable résumé
// stays visible in the prompt instead of silently disappearing.
type PDFParserService interface {
	ExtractText(data []byte) string
	ExtractTextFromFile(filePath string) string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractTextFromFile(filePath string) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("failed to read PDF file")
		return strings.TrimSpace(fmt.Sprintf(pdfErrorMarker, err.Error()))
	}
	return p.ExtractText(data)
}

func (p *pdfParserService) ExtractText(data []byte) (text string) {
	var textBuilder strings.Builder

	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = withErrorMarker(textBuilder.String(), fmt.Sprint(r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return withErrorMarker("", err.Error())
	}

	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return withErrorMarker(textBuilder.String(), fmt.Sprintf("page %d: %v", pageIndex, err))
		}

		textBuilder.WriteString(pageText)
	}

	return strings.TrimSpace(textBuilder.String())
}

func withErrorMarker(accumulated, message string) string {
	log.Warn().Str("reason", message).Msg("PDF text extraction failed")
	return strings.TrimSpace(accumulated + "\n" + fmt.Sprintf(pdfErrorMarker, message))
}
