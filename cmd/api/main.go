package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/autorank-cv/internal/config"
	"alfredoptarigan/autorank-cv/internal/handlers"
	"alfredoptarigan/autorank-cv/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.InitLogger(cfg)
	log.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize services
	pdfParser := services.NewPDFParserService()

	// Built on first use; a bad configuration surfaces on the first analysis.
	completionService := services.NewCompletionService(cfg.Completion)
	log.Info().
		Str("provider", cfg.Completion.Provider).
		Str("model", cfg.Completion.Model).
		Msg("✅ Completion service configured")

	renderer, err := services.NewReportRenderer(cfg.Report.Renderer, cfg.Report.ChromePath)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize report renderer")
	}

	analyzerService := services.NewAnalyzerService(cfg, pdfParser, completionService, renderer)
	log.Info().Msg("✅ Services initialized successfully")

	// Initialize Handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, cfg.Analysis.MaxFileSize)
	reportHandler := handlers.NewReportHandler(renderer, cfg.Report.Filename)

	// Create Fiber app. Analysis waits on the model, so the write timeout has
	// to cover the completion timeout plus rendering.
	app := fiber.New(fiber.Config{
		AppName:      "AutoRank CV API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Completion.Timeout*time.Duration(cfg.Completion.MaxAttempts) + 60*time.Second,
		BodyLimit:    int(cfg.Server.MaxRequestSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app, analyzeHandler, reportHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
