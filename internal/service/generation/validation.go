package generation

import (
	"fmt"
	"strings"

	"blogsmith/internal/config"
	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/blog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// normalizeBrief trims free-text fields, drops blank keywords and fills defaults
func normalizeBrief(b blog.Brief) blog.Brief {
	b.Topic = strings.TrimSpace(b.Topic)
	b.ICP = strings.TrimSpace(b.ICP)
	b.Style = strings.TrimSpace(b.Style)

	keywords := make(blog.KeywordList, 0, len(b.Keywords))
	for _, k := range b.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	b.Keywords = keywords

	return b.WithDefaults()
}

// validateBrief checks a normalized brief for outline generation
func validateBrief(b *blog.Brief) error {
	err := validation.ValidateStruct(b,
		validation.Field(&b.Topic, validation.Required, validation.RuneLength(1, config.MaxBriefFieldLength)),
		validation.Field(&b.ICP, validation.Required, validation.RuneLength(1, config.MaxBriefFieldLength)),
		validation.Field(&b.Style, validation.Required, validation.RuneLength(1, config.MaxBriefFieldLength)),
		validation.Field(&b.Keywords, validation.Length(0, config.MaxKeywords)),
		validation.Field(&b.Creativity, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return validateTiers(b)
}

// validateTiers checks the article settings of a brief
func validateTiers(b *blog.Brief) error {
	err := validation.ValidateStruct(b,
		validation.Field(&b.Length, validation.In(blog.LengthShort, blog.LengthMedium, blog.LengthLong, blog.LengthComprehensive)),
		validation.Field(&b.SEO, validation.In(blog.SEOMinimal, blog.SEOBalanced, blog.SEOAggressive)),
		validation.Field(&b.Citations, validation.In(blog.CitationsNone, blog.CitationsWhenNeeded, blog.CitationsAlways)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateFeedback(text string) error {
	err := validation.Validate(text,
		validation.Required.Error("feedback is required"),
		validation.RuneLength(1, config.MaxFeedbackLength),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
