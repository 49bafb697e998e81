package generation

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"
)

const maxRawInError = 500

// parseOutline decodes a completion into an outline draft. Every field must be
// present with the right JSON type; title must be non-blank. An empty
// key_points array is accepted.
func parseOutline(text string) (*blog.OutlineDraft, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &fields); err != nil {
		return nil, parseFailure("response is not a JSON object", text)
	}

	var draft blog.OutlineDraft

	rawTitle, ok := fields["title"]
	if !ok || json.Unmarshal(rawTitle, &draft.Title) != nil {
		return nil, parseFailure("title must be a string", text)
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return nil, parseFailure("title is empty", text)
	}

	rawKeyword, ok := fields["main_keyword"]
	if !ok || json.Unmarshal(rawKeyword, &draft.MainKeyword) != nil {
		return nil, parseFailure("main_keyword must be a string", text)
	}
	draft.MainKeyword = strings.TrimSpace(draft.MainKeyword)

	rawPoints, ok := fields["key_points"]
	if !ok || string(rawPoints) == "null" || json.Unmarshal(rawPoints, &draft.KeyPoints) != nil {
		return nil, parseFailure("key_points must be an array of strings", text)
	}
	if draft.KeyPoints == nil {
		draft.KeyPoints = []string{}
	}

	return &draft, nil
}

func parseFailure(reason, raw string) error {
	if len(raw) > maxRawInError {
		cut := maxRawInError
		for cut > 0 && !utf8.RuneStart(raw[cut]) {
			cut--
		}
		raw = raw[:cut]
	}
	return &domain.GenerationParseError{Reason: reason, Raw: raw}
}
