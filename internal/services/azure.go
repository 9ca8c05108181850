package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/autorank-cv/internal/config"
)

// azureService talks to an Azure OpenAI chat-completions deployment.
type azureService struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	temperature float32
	topP        float32
	maxTokens   int
}

type azureChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatRequest struct {
	Messages    []azureChatMessage `json:"messages"`
	Temperature float32            `json:"temperature"`
	TopP        float32            `json:"top_p"`
	MaxTokens   int                `json:"max_tokens"`
}

type azureChatResponse struct {
	Choices []struct {
		Message azureChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAzureService(cfg config.CompletionConfig) (CompletionService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("azure endpoint base URL is not configured")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("azure deployment name is not configured")
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(cfg.BaseURL, "/"),
		url.PathEscape(cfg.Model),
		url.QueryEscape(cfg.APIVersion),
	)

	return &azureService{
		httpClient:  &http.Client{},
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete implements CompletionService.
func (a *azureService) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(azureChatRequest{
		Messages:    []azureChatMessage{{Role: "user", Content: prompt}},
		Temperature: a.temperature,
		TopP:        a.topP,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &CompletionError{Provider: config.ProviderAzure, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CompletionError{Provider: config.ProviderAzure, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var result azureChatResponse
	decodeErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if decodeErr == nil && result.Error != nil {
			msg = result.Error.Message
		}
		return "", &CompletionError{
			Provider: config.ProviderAzure,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, msg),
		}
	}

	if decodeErr != nil {
		return "", &CompletionError{Provider: config.ProviderAzure, Err: fmt.Errorf("malformed response: %w", decodeErr)}
	}

	if len(result.Choices) == 0 {
		return "", &CompletionError{Provider: config.ProviderAzure, Err: fmt.Errorf("response has no choices")}
	}

	text := result.Choices[0].Message.Content
	log.Debug().Int("characters", len(text)).Msg("azure response received")

	return text, nil
}
