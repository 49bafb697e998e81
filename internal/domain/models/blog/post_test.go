package blog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple", title: "Hello World", want: "hello-world"},
		{name: "punctuation runs collapse", title: "Hello, World!!", want: "hello-world"},
		{name: "leading and trailing trimmed", title: "  --Go Tips--  ", want: "go-tips"},
		{name: "digits kept", title: "10 Ways to Ship in 2025", want: "10-ways-to-ship-in-2025"},
		{name: "non ascii letters are separators", title: "Café au lait", want: "caf-au-lait"},
		{name: "already a slug", title: "already-a-slug", want: "already-a-slug"},
		{name: "only symbols", title: "!!!", want: ""},
		{name: "empty", title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, `^([a-z0-9]+(-[a-z0-9]+)*)?$`, got)
			assert.Equal(t, got, Slugify(got), "slugify must be idempotent")
		})
	}
}

func TestCategoryVisibleTo(t *testing.T) {
	owner := "user-1"
	global := Category{ID: "c1"}
	own := Category{ID: "c2", UserID: &owner}

	assert.True(t, global.VisibleTo("anyone"))
	assert.True(t, own.VisibleTo(owner))
	assert.False(t, own.VisibleTo("user-2"))
}

func TestKeywordListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want KeywordList
	}{
		{name: "array", raw: `["go","saas"]`, want: KeywordList{"go", "saas"}},
		{name: "comma string", raw: `"go, saas , ,blogging"`, want: KeywordList{"go", "saas", "blogging"}},
		{name: "null", raw: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got KeywordList
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBriefWithDefaults(t *testing.T) {
	b := Brief{Topic: "t", ICP: "i", Style: "s"}.WithDefaults()

	require.NotNil(t, b.Creativity)
	assert.Equal(t, DefaultCreativity, *b.Creativity)
	assert.Equal(t, LengthMedium, b.Length)
	assert.Equal(t, SEOBalanced, b.SEO)
	assert.Equal(t, CitationsWhenNeeded, b.Citations)
	assert.NotNil(t, b.Keywords)

	zero := 0.0
	cold := Brief{Creativity: &zero}.WithDefaults()
	assert.Equal(t, 0.0, cold.Temperature())
}
