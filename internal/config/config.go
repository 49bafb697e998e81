package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	BaseURL         string

	// Completion
	CompletionProvider string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	AnthropicAPIKey    string
	OutlineModel       string
	ArticleModel       string

	// Stripe
	StripeSecretKey           string
	StripeWebhookSecret       string
	StripeTokenPackPriceID    string
	StripeSubscriptionPriceID string

	GenerationRatePerMinute int
	WordPressTimeoutSeconds int

	// Logging
	LogDir      string
	LogMaxFiles int

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")
	provider := getEnv("COMPLETION_PROVIDER", ProviderOpenAI)

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		BaseURL:         strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),

		CompletionProvider: provider,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		OutlineModel:       getEnv("OUTLINE_MODEL", defaultModel(provider)),
		ArticleModel:       getEnv("ARTICLE_MODEL", defaultModel(provider)),

		StripeSecretKey:           getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:       getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeTokenPackPriceID:    getEnv("STRIPE_TOKEN_PACK_100K_PRICE_ID", ""),
		StripeSubscriptionPriceID: getEnv("STRIPE_MONTHLY_SUBSCRIPTION_PRICE_ID", ""),

		GenerationRatePerMinute: getEnvInt("GENERATION_RATE_PER_MINUTE", 20),
		WordPressTimeoutSeconds: getEnvInt("WORDPRESS_TIMEOUT_SECONDS", 30),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Validate reports settings the server cannot start without.
// Outside prod an empty SUPABASE_DB_URL is allowed and selects the in-memory store.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment, validation.In("dev", "test", "prod")),
		validation.Field(&c.SupabaseURL, validation.Required),
		validation.Field(&c.SupabaseDBURL, validation.When(c.Environment == "prod", validation.Required)),
		validation.Field(&c.CompletionProvider, validation.In(ProviderOpenAI, ProviderAnthropic)),
		validation.Field(&c.OpenAIAPIKey, validation.When(c.CompletionProvider == ProviderOpenAI, validation.Required)),
		validation.Field(&c.AnthropicAPIKey, validation.When(c.CompletionProvider == ProviderAnthropic, validation.Required)),
		validation.Field(&c.GenerationRatePerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.WordPressTimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// UseMemoryStore reports whether repositories should be backed by process memory
func (c *Config) UseMemoryStore() bool {
	return c.SupabaseDBURL == "" && c.Environment != "prod"
}

func defaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-haiku-4-5-20251001"
	}
	return "gpt-4o"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid %s=%q, using %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// PlanPrices maps plan catalog ids to the configured Stripe price ids
func (c *Config) PlanPrices() map[string]string {
	return map[string]string{
		"token_pack_100k":      c.StripeTokenPackPriceID,
		"monthly_subscription": c.StripeSubscriptionPriceID,
	}
}
