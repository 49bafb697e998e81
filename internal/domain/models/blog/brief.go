package blog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Length tiers for generated articles
const (
	LengthShort         = "short"
	LengthMedium        = "medium"
	LengthLong          = "long"
	LengthComprehensive = "comprehensive"
)

// SEO intensity tiers
const (
	SEOMinimal    = "minimal"
	SEOBalanced   = "balanced"
	SEOAggressive = "aggressive"
)

// Citation policies
const (
	CitationsNone       = "none"
	CitationsWhenNeeded = "when-needed"
	CitationsAlways     = "always"
)

// DefaultCreativity is used when a brief carries no creativity value.
const DefaultCreativity = 0.7

// Brief is the user-supplied input to outline and article generation.
// It is stored verbatim alongside every outline generated from it.
type Brief struct {
	Topic      string      `json:"topic"`
	ICP        string      `json:"icp"`
	Style      string      `json:"style"`
	Keywords   KeywordList `json:"keywords"`
	Creativity *float64    `json:"creativity,omitempty"`
	Length     string      `json:"length,omitempty"`
	SEO        string      `json:"seo,omitempty"`
	Citations  string      `json:"citations,omitempty"`
}

// WithDefaults returns a copy with empty tiers and creativity filled in.
func (b Brief) WithDefaults() Brief {
	if b.Creativity == nil {
		c := DefaultCreativity
		b.Creativity = &c
	}
	if b.Length == "" {
		b.Length = LengthMedium
	}
	if b.SEO == "" {
		b.SEO = SEOBalanced
	}
	if b.Citations == "" {
		b.Citations = CitationsWhenNeeded
	}
	if b.Keywords == nil {
		b.Keywords = KeywordList{}
	}
	return b
}

// Temperature returns the sampling temperature derived from creativity.
func (b Brief) Temperature() float64 {
	if b.Creativity == nil {
		return DefaultCreativity
	}
	return *b.Creativity
}

// KeywordList accepts either a JSON array of strings or a single comma-separated string.
type KeywordList []string

// UnmarshalJSON implements json.Unmarshaler.
func (k *KeywordList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*k = nil
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*k = splitKeywords(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*k = KeywordList(list)
	return nil
}

func splitKeywords(s string) KeywordList {
	parts := strings.Split(s, ",")
	out := make(KeywordList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
