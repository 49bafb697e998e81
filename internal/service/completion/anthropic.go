package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/services"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
)

// generator is the part of llmprovider.Provider a single-turn completion needs
type generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// AnthropicClient calls Claude through the meridian-llm-go provider.
// Claude has no JSON response mode, so JSON requests carry an extra system instruction
// and any code fence around the reply is removed.
type AnthropicClient struct {
	provider        generator
	jsonInstruction string
	logger          *slog.Logger
}

// NewAnthropicClient creates a client for apiKey
func NewAnthropicClient(apiKey, jsonInstruction string, logger *slog.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return newAnthropicClient(provider, jsonInstruction, logger), nil
}

func newAnthropicClient(provider generator, jsonInstruction string, logger *slog.Logger) *AnthropicClient {
	return &AnthropicClient{provider: provider, jsonInstruction: jsonInstruction, logger: logger}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

func (c *AnthropicClient) Complete(ctx context.Context, req *services.CompletionRequest) (*services.CompletionResult, error) {
	system := req.System
	if req.JSON && c.jsonInstruction != "" {
		system = system + "\n\n" + c.jsonInstruction
	}
	user := req.User
	maxTokens := req.MaxTokens
	temp := req.Temperature

	libReq := &llmprovider.GenerateRequest{
		Model: req.Model,
		Messages: []llmprovider.Message{
			{
				Role:   "user",
				Blocks: []*llmprovider.Block{{BlockType: "text", TextContent: &user}},
			},
		},
		Params: &llmprovider.RequestParams{
			MaxTokens:   &maxTokens,
			Temperature: &temp,
			System:      &system,
		},
	}

	resp, err := c.provider.GenerateResponse(ctx, libReq)
	if err != nil {
		c.logger.Warn("anthropic completion failed", "kind", req.Kind, "model", req.Model, "error", err)
		return nil, &domain.UpstreamError{Provider: c.Name(), Message: err.Error()}
	}

	var text strings.Builder
	for _, block := range resp.Blocks {
		if block.BlockType == "text" && block.TextContent != nil {
			text.WriteString(*block.TextContent)
		}
	}

	out := text.String()
	if req.JSON {
		out = stripCodeFence(out)
	}

	return &services.CompletionResult{
		Text:         out,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// stripCodeFence unwraps ```json ... ``` replies
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
