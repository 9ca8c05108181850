package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/autorank-cv/internal/models"
	"alfredoptarigan/autorank-cv/internal/services"
)

type ReportHandler struct {
	renderer services.ReportRenderer
	filename string
}

func NewReportHandler(renderer services.ReportRenderer, filename string) *ReportHandler {
	return &ReportHandler{
		renderer: renderer,
		filename: filename,
	}
}

// HandleReport handles POST /report. It re-renders an analysis the client
// already holds, without calling the model again.
func (h *ReportHandler) HandleReport(c *fiber.Ctx) error {
	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Analysis) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.WarningResponse{
			Warning: "analysis is required",
		})
	}

	report := services.FormatReport(req.Analysis)

	switch strings.ToLower(req.Format) {
	case "txt", "text":
		c.Attachment(textFilename(h.filename))
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(report.PlainText())
	case "", "pdf":
		pdf, err := h.renderer.Render(c.UserContext(), report)
		if err != nil {
			return respondError(c, err)
		}
		c.Attachment(h.filename)
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(pdf)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be pdf or txt",
		})
	}
}

func textFilename(pdfName string) string {
	return strings.TrimSuffix(pdfName, ".pdf") + ".txt"
}
