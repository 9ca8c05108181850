package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/autorank-cv/internal/config"
)

var ErrEmptyCompletion = errors.New("completion returned no text")

// CompletionService sends one prompt to a hosted chat-completion model and
// returns the full response text. Sampling parameters are fixed at
// construction time.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompletionError wraps any failure talking to the completion provider.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

type completionFactory func(ctx context.Context, cfg config.CompletionConfig) (CompletionService, error)

// lazyCompletionService builds the provider client on first use and reuses
// it for the rest of the process lifetime. A construction error is kept and
// returned from every call.
type lazyCompletionService struct {
	cfg     config.CompletionConfig
	factory completionFactory

	once    sync.Once
	client  CompletionService
	initErr error
}

func NewCompletionService(cfg config.CompletionConfig) CompletionService {
	return newLazyCompletionService(cfg, providerFactory)
}

func newLazyCompletionService(cfg config.CompletionConfig, factory completionFactory) *lazyCompletionService {
	return &lazyCompletionService{cfg: cfg, factory: factory}
}

func providerFactory(ctx context.Context, cfg config.CompletionConfig) (CompletionService, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiService(ctx, cfg)
	case config.ProviderAzure:
		return NewAzureService(cfg)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}

func (l *lazyCompletionService) Complete(ctx context.Context, prompt string) (string, error) {
	l.once.Do(func() {
		l.client, l.initErr = l.factory(context.Background(), l.cfg)
		if l.initErr == nil {
			log.Info().Str("provider", l.cfg.Provider).Str("model", l.cfg.Model).Msg("completion client initialized")
		}
	})
	if l.initErr != nil {
		return "", &CompletionError{Provider: l.cfg.Provider, Err: l.initErr}
	}

	attempts := l.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := l.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			log.Warn().Err(err).Int("attempt", attempt).Msg("completion attempt failed, retrying")
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
			}
		}
	}

	var completionErr *CompletionError
	if errors.As(lastErr, &completionErr) {
		return "", lastErr
	}
	return "", &CompletionError{Provider: l.cfg.Provider, Err: lastErr}
}

func (l *lazyCompletionService) completeOnce(ctx context.Context, prompt string) (string, error) {
	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()
	}

	text, err := l.client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
