package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/guyuexuan/hbmtaskd/internal/config"
	"github.com/guyuexuan/hbmtaskd/internal/platform/aichat"
	"github.com/guyuexuan/hbmtaskd/internal/platform/gemini"
	"github.com/guyuexuan/hbmtaskd/internal/resolver"
)

// setupResolver builds the answer resolver selected by configuration:
// manual prompting on the daemon's terminal, an OpenAI-compatible chat
// endpoint, or the Gemini API.
func setupResolver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (resolver.Resolver, error) {
	if cfg.AI.ManualAnswer {
		logger.Info("answer resolver: manual")
		return resolver.NewManualResolver(stdinPrompt)
	}

	switch cfg.AI.Backend {
	case "gemini":
		logger.Info("answer resolver: gemini", "model", cfg.AI.Model)
		return gemini.NewAsker(ctx, logger, cfg.AI)
	default:
		logger.Info("answer resolver: openai-compatible", "model", cfg.AI.Model)
		client, err := aichat.NewClient(logger)
		if err != nil {
			return nil, err
		}
		return resolver.NewAIResolver(cfg.AI, client)
	}
}

// stdinPrompt shows the question on the daemon's terminal and reads the
// answer letter from standard input. It is only useful when the daemon
// runs attached to a terminal; headless deployments should configure an
// AI backend instead.
func stdinPrompt(ctx context.Context, question resolver.Question) (string, error) {
	fmt.Println(question.Prompt())
	fmt.Print("answer> ")

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
