package converter

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/service/converter/sanitizer"
)

// htmlConverter converts submitted HTML to markdown.
// Input is sanitized first, then converted.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter
func NewHTMLConverter() services.ContentConverter {
	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	sanitized := c.sanitizer.Sanitize(string(input))

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return markdown, nil
}

func (c *htmlConverter) Format() string {
	return services.ContentFormatHTML
}

// markdownConverter passes markdown through unchanged; it is the storage format.
type markdownConverter struct{}

// NewMarkdownConverter creates the passthrough converter
func NewMarkdownConverter() services.ContentConverter {
	return &markdownConverter{}
}

func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

func (c *markdownConverter) Format() string {
	return services.ContentFormatMarkdown
}
