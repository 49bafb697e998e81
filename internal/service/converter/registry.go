// Package converter converts post content between submitted formats, stored
// markdown and published HTML.
package converter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"blogsmith/internal/domain/services"
)

// ConverterRegistry routes content to a converter by content_format.
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]services.ContentConverter
}

// NewConverterRegistry creates a registry with the markdown and HTML converters registered
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]services.ContentConverter),
	}

	registry.Register(NewMarkdownConverter())
	registry.Register(NewHTMLConverter())

	return registry
}

// Register adds a converter under its format
func (r *ConverterRegistry) Register(converter services.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[strings.ToLower(converter.Format())] = converter
}

// ToMarkdown converts content in format to markdown. An empty format means markdown.
func (r *ConverterRegistry) ToMarkdown(ctx context.Context, format, content string) (string, error) {
	if format == "" {
		format = services.ContentFormatMarkdown
	}

	r.mu.RLock()
	converter := r.converters[strings.ToLower(format)]
	r.mu.RUnlock()

	if converter == nil {
		return "", fmt.Errorf("unsupported content format: %s", format)
	}
	return converter.Convert(ctx, []byte(content))
}

// Formats returns every registered format, sorted
func (r *ConverterRegistry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]string, 0, len(r.converters))
	for f := range r.converters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
