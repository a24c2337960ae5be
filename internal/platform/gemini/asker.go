// Package gemini implements the Gemini-backed answer source for the
// daily quiz, as an alternative to OpenAI-compatible endpoints.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/resolver"
)

// systemInstruction mirrors the prompt used for OpenAI-compatible
// backends: single-choice question, answer with the letter only, use
// only the options actually offered.
const systemInstruction = "你是一位北京现代汽车品牌的专家，对车型配置非常熟悉。\n" +
	"以下是一道单选题，请只从题目实际列出的选项里选择正确答案。\n" +
	"注意：题目可能只给出 2 个或 3 个选项，并非永远 4 个。\n" +
	"请仅输出对应选项的那个英文字母，不要输出任何其他字符。"

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("gemini returned no answer text")

// Asker implements resolver.Resolver using Google's Gemini API.
type Asker struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewAsker creates a Gemini-backed answer source. Key and model must be
// configured; the request URL setting is not used by this backend.
func NewAsker(ctx context.Context, logger *slog.Logger, cfg config.AIConfig) (*Asker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: gemini backend needs api key and model", resolver.ErrConfigIncomplete)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Asker{
		logger: logger,
		client: client,
		model:  cfg.Model,
	}, nil
}

var _ resolver.Resolver = (*Asker)(nil)

// Resolve asks Gemini for the answer letter.
func (a *Asker) Resolve(ctx context.Context, question resolver.Question) (string, error) {
	a.logger.DebugContext(ctx, "asking gemini", "model", a.model, "question_hid", question.Hid)

	resp, err := a.client.Models.GenerateContent(
		ctx,
		a.model,
		genai.Text(question.Prompt()),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", ErrEmptyResponse
	}

	return answer, nil
}
