package services

import "context"

// ContentConverter turns submitted post content into stored markdown.
type ContentConverter interface {
	Convert(ctx context.Context, input []byte) (string, error)

	// Format is the content_format value the converter accepts
	Format() string
}

// MarkdownRenderer turns stored markdown into HTML safe to hand to a publishing target.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}
