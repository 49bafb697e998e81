package config

const (
	// MaxTitleLength is the maximum length for post and outline titles.
	// Limited to 255 to keep slugs usable as URL path segments.
	MaxTitleLength = 255

	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 100

	// MaxBriefFieldLength bounds topic, ICP and style in a brief.
	MaxBriefFieldLength = 2000

	// MaxKeywords is the maximum number of keywords in a brief.
	MaxKeywords = 25

	// MaxFeedbackLength is the maximum length for outline feedback.
	MaxFeedbackLength = 4000

	// MaxPostContentLength bounds stored markdown (1MB).
	MaxPostContentLength = 1 << 20

	// OutlineMaxTokens and ArticleMaxTokens cap completion output.
	OutlineMaxTokens = 512
	ArticleMaxTokens = 2048

	// ArticleTemperature is fixed; brief creativity only steers outlines.
	ArticleTemperature = 0.7
)
