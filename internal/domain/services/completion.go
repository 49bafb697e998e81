package services

import "context"

// Completion kinds, used for prompt lookup and metrics labels
const (
	CompletionKindOutline = "outline"
	CompletionKindArticle = "article"
)

// CompletionRequest is a single-turn system+user prompt sent to a hosted model.
type CompletionRequest struct {
	Kind        string
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a single JSON object as the whole response
	JSON bool
}

// CompletionResult is the text the model produced plus usage.
type CompletionResult struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// CompletionClient talks to one hosted completion API.
// Transport and provider failures are returned as *domain.UpstreamError.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
}
