package services

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"alfredoptarigan/autorank-cv/internal/models"
)

var acceptedContentTypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

// genericContentTypes say nothing about the payload, so the bytes themselves
// must look like a PDF.
var genericContentTypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
}

var pdfMagic = []byte("%PDF-")

// ReadUpload validates a multipart résumé and loads it into memory. Nothing
// is written to disk.
func ReadUpload(file *multipart.FileHeader, index int, maxFileSize int64) (*models.UploadedResume, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("%w: %s is not a PDF file", ErrInvalidUpload, file.Filename)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mediaType
		}
	}
	contentType = strings.ToLower(contentType)
	if !acceptedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s has content type %s, expected application/pdf", ErrInvalidUpload, file.Filename, contentType)
	}

	if maxFileSize > 0 && file.Size > maxFileSize {
		return nil, fmt.Errorf("%w: %s is too large. Max size: %d bytes", ErrInvalidUpload, file.Filename, maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if genericContentTypes[contentType] && !looksLikePDF(data) {
		return nil, fmt.Errorf("%w: %s does not contain PDF data", ErrInvalidUpload, file.Filename)
	}

	return &models.UploadedResume{
		Index:            index,
		OriginalFileName: file.Filename,
		Data:             data,
	}, nil
}

func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic) || http.DetectContentType(data) == "application/pdf"
}
