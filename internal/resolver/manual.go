package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PromptFunc is the callback boundary toward the operator surface for
// manual answering. It blocks until a human answers or gives up; there
// is no built-in timeout, callers bound it with the context if at all.
type PromptFunc func(ctx context.Context, question Question) (string, error)

// ManualResolver hands the question to a human and passes the answer
// letter through.
type ManualResolver struct {
	prompt PromptFunc
}

// NewManualResolver creates a resolver backed by the given prompt callback.
func NewManualResolver(prompt PromptFunc) (*ManualResolver, error) {
	if prompt == nil {
		return nil, errors.New("prompt callback cannot be nil")
	}
	return &ManualResolver{prompt: prompt}, nil
}

var _ Resolver = (*ManualResolver)(nil)

// Resolve blocks on the human prompt. An error or empty answer from the
// prompt abandons the question task for this run.
func (r *ManualResolver) Resolve(ctx context.Context, question Question) (string, error) {
	answer, err := r.prompt(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrResolverAborted, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrResolverAborted
	}

	return answer, nil
}
