// Package aichat implements an OpenAI-compatible chat-completions
// client used to answer the daily quiz. It runs on its own long-timeout
// transport so a slow model never throttles ordinary platform calls.
package aichat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// systemPrompt instructs the model to answer a single-choice question
// about the platform's vehicle domain with the option letter only,
// using only the options the question actually offers.
const systemPrompt = "你是一位北京现代汽车品牌的专家，对车型配置非常熟悉。\n" +
	"以下是一道单选题，请只从题目实际列出的选项里选择正确答案。\n" +
	"注意：题目可能只给出 2 个或 3 个选项，并非永远 4 个。\n" +
	"请仅输出对应选项的那个英文字母，不要输出任何其他字符。"

// ErrEmptyResponse is returned when the endpoint answered but produced
// no choices to extract an answer from.
var ErrEmptyResponse = errors.New("ai endpoint returned no choices")

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client posts chat-completion requests to a user-configured endpoint.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an AI client on the long-running transport profile:
// 10s connect, 5m per round-trip. Model responses are allowed to be
// slow; the per-run budget is enforced by the caller's context.
func NewClient(logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   5 * time.Minute,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// Ask sends the question to the configured endpoint and returns the
// model's answer from the first choice. extraParams, when non-empty and
// parseable as a flat JSON object, is merged into the request body;
// malformed extra params are ignored rather than fatal so a typo in
// optional tuning never blocks the quiz.
func (c *Client) Ask(ctx context.Context, apiKey, requestURL, model, extraParams, question string) (string, error) {
	body := map[string]any{
		"model": model,
		"messages": []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
	}

	if extraParams != "" {
		var params map[string]any
		if err := json.Unmarshal([]byte(extraParams), &params); err == nil {
			for key, value := range params {
				body[key] = value
			}
		} else {
			c.logger.WarnContext(ctx, "ignoring malformed ai request params", "error", err)
		}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode ai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to build ai request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ai endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ai response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode ai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return parsed.Choices[0].Message.Content, nil
}
