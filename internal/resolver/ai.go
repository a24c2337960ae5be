package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guyuexuan/hbmtaskd/internal/config"
)

// ChatClient is the outbound boundary toward an OpenAI-compatible
// chat-completions endpoint.
type ChatClient interface {
	Ask(ctx context.Context, apiKey, requestURL, model, extraParams, question string) (string, error)
}

// AIResolver answers the quiz by asking a configured chat endpoint.
// It never falls back to manual mode: a backend failure fails the
// question task for this run.
type AIResolver struct {
	cfg    config.AIConfig
	client ChatClient
}

// NewAIResolver creates a resolver backed by the given chat client.
// Credential completeness is checked at resolve time, not here, so a
// partially configured deployment can still run its other tasks.
func NewAIResolver(cfg config.AIConfig, client ChatClient) (*AIResolver, error) {
	if client == nil {
		return nil, errors.New("chat client cannot be nil")
	}
	return &AIResolver{cfg: cfg, client: client}, nil
}

var _ Resolver = (*AIResolver)(nil)

// Resolve asks the configured endpoint for the answer letter. If any of
// key, URL or model is empty it fails fast with ErrConfigIncomplete
// before issuing a network call.
func (r *AIResolver) Resolve(ctx context.Context, question Question) (string, error) {
	if r.cfg.APIKey == "" || r.cfg.RequestURL == "" || r.cfg.Model == "" {
		return "", ErrConfigIncomplete
	}

	answer, err := r.client.Ask(
		ctx,
		r.cfg.APIKey,
		r.cfg.RequestURL,
		r.cfg.Model,
		r.cfg.RequestParams,
		question.Prompt(),
	)
	if err != nil {
		return "", fmt.Errorf("ai answer failed: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
