package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutlinePrompt(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		in       OutlineInput
		wantUser string
	}{
		{
			name:     "without feedback",
			in:       OutlineInput{Topic: "Go generics", ICP: "backend devs", Style: "casual", Keywords: []string{"go", "generics"}},
			wantUser: "Topic: Go generics\nICP: backend devs\nStyle: casual\nKeywords: go, generics",
		},
		{
			name:     "with feedback",
			in:       OutlineInput{Topic: "t", ICP: "i", Style: "s", Feedback: "more examples"},
			wantUser: "Topic: t\nICP: i\nStyle: s\nKeywords: \nFeedback: more examples",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Outline(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, got.User)
			assert.Contains(t, got.System, "title (string), main_keyword (string), and key_points (array of strings)")
		})
	}
}

func TestArticlePrompt(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	got, err := c.Article(ArticleInput{
		Title:       "Intro",
		MainKeyword: "go",
		KeyPoints:   []string{"a", "b"},
		Topic:       "t",
		ICP:         "i",
		Style:       "s",
		Keywords:    []string{"x", "y"},
		Length:      "long",
		SEO:         "aggressive",
		Citations:   "always",
	})
	require.NoError(t, err)

	assert.Contains(t, got.System, "Length: long, SEO: aggressive, Citations: always.")
	assert.Equal(t, "Title: Intro\nMain Keyword: go\nKey Points: a | b\nTopic: t\nICP: i\nStyle: s\nKeywords: x, y", got.User)
}

func TestParseRejectsBrokenFiles(t *testing.T) {
	_, err := Parse([]byte("outline:\n  system: ok\n"))
	assert.ErrorContains(t, err, "outline.user")

	_, err = Parse([]byte("outline:\n  system: '{{.Topic'\n  user: u\narticle:\n  system: s\n  user: u\n"))
	assert.ErrorContains(t, err, "parse prompt outline.system")
}
