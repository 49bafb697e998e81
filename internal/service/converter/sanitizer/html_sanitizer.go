package sanitizer

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var codeLanguageClass = regexp.MustCompile(`^language-[\w+-]+$`)

// HTMLSanitizer removes dangerous HTML elements and attributes.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer over the UGC policy. Formatting, links,
// images, tables and code survive, as do language-* classes on code blocks.
// Scripts, event handlers and javascript: URLs are removed.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(codeLanguageClass).OnElements("code")
	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns html with everything outside the policy removed
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
