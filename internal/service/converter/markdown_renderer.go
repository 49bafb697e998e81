package converter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/service/converter/sanitizer"
)

// markdownRenderer renders GitHub-flavoured markdown and sanitizes the result.
// Raw HTML in the markdown is passed to the sanitizer rather than dropped.
type markdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
}

// NewMarkdownRenderer creates a markdown to HTML renderer
func NewMarkdownRenderer() services.MarkdownRenderer {
	return &markdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				htmlrenderer.WithUnsafe(),
			),
		),
		sanitizer: sanitizer.NewHTMLSanitizer(),
	}
}

func (r *markdownRenderer) Render(ctx context.Context, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
