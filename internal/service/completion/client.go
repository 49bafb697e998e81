// Package completion adapts hosted completion APIs to services.CompletionClient.
package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"
	"blogsmith/internal/domain/services"
	"blogsmith/internal/metrics"
)

// NewClient builds the configured provider's client, wrapped with metrics and
// per-model output limits.
func NewClient(cfg *config.Config, caps *capabilities.Registry, jsonInstruction string, logger *slog.Logger) (services.CompletionClient, error) {
	var client services.CompletionClient
	var err error

	switch cfg.CompletionProvider {
	case config.ProviderOpenAI:
		client, err = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, logger)
	case config.ProviderAnthropic:
		client, err = NewAnthropicClient(cfg.AnthropicAPIKey, jsonInstruction, logger)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.CompletionProvider)
	}
	if err != nil {
		return nil, err
	}

	for _, model := range []string{cfg.OutlineModel, cfg.ArticleModel} {
		if _, err := caps.GetModelCapabilities(cfg.CompletionProvider, model); err != nil {
			logger.Warn("completion model not in capability catalog", "provider", cfg.CompletionProvider, "model", model)
		}
	}

	return Instrument(client, caps, logger), nil
}

// Instrument wraps client with latency and token metrics. When the model is in
// the capability catalog, MaxTokens is clamped to the model's output limit.
func Instrument(client services.CompletionClient, caps *capabilities.Registry, logger *slog.Logger) services.CompletionClient {
	return &instrumented{next: client, caps: caps, logger: logger}
}

type instrumented struct {
	next   services.CompletionClient
	caps   *capabilities.Registry
	logger *slog.Logger
}

func (c *instrumented) Name() string { return c.next.Name() }

func (c *instrumented) Complete(ctx context.Context, req *services.CompletionRequest) (*services.CompletionResult, error) {
	if c.caps != nil {
		if model, err := c.caps.GetModelCapabilities(c.next.Name(), req.Model); err == nil {
			clamped := *req
			clamped.MaxTokens = model.ClampMaxTokens(req.MaxTokens)
			req = &clamped
		}
	}

	started := time.Now()
	result, err := c.next.Complete(ctx, req)
	if err != nil {
		metrics.ObserveCompletion(c.next.Name(), req.Kind, started, 0, 0)
		return nil, err
	}

	metrics.ObserveCompletion(c.next.Name(), req.Kind, started, result.InputTokens, result.OutputTokens)
	c.logger.Debug("completion finished",
		"provider", c.next.Name(),
		"kind", req.Kind,
		"model", result.Model,
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}
