package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"alfredoptarigan/autorank-cv/internal/config"
)

type geminiService struct {
	client      *genai.Client
	modelName   string
	temperature float32
	topP        float32
	maxTokens   int32
}

func NewGeminiService(ctx context.Context, cfg config.CompletionConfig) (CompletionService, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" || cfg.APIVersion != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Complete implements CompletionService.
func (g *geminiService) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	topP := g.topP

	generationConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: g.maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), generationConfig)
	if err != nil {
		return "", &CompletionError{Provider: config.ProviderGemini, Err: err}
	}

	if resp == nil {
		return "", &CompletionError{Provider: config.ProviderGemini, Err: fmt.Errorf("nil response")}
	}

	text := resp.Text()
	log.Debug().Int("characters", len(text)).Msg("gemini response received")

	return text, nil
}
