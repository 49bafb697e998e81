package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadsEmbeddedProviders(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	models, err := r.ListProviderModels("openai")
	require.NoError(t, err)
	require.NotEmpty(t, models)
	assert.Equal(t, "gpt-4o", models[0].ID, "order follows the YAML file")

	for _, provider := range Providers {
		def, err := r.DefaultModel(provider)
		require.NoError(t, err)
		_, err = r.GetModelCapabilities(provider, def)
		assert.NoError(t, err, "default model of %s must be listed", provider)
	}
}

func TestGetModelCapabilities(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	caps, err := r.GetModelCapabilities("openai", "gpt-4o")
	require.NoError(t, err)
	assert.True(t, caps.SupportsJSONMode)

	caps, err = r.GetModelCapabilities("anthropic", "claude-haiku-4-5-20251001")
	require.NoError(t, err)
	assert.False(t, caps.SupportsJSONMode)

	_, err = r.GetModelCapabilities("openai", "nope")
	assert.Error(t, err)
	_, err = r.GetModelCapabilities("cohere", "command")
	assert.Error(t, err)
}

func TestClampMaxTokens(t *testing.T) {
	m := &ModelCapabilities{MaxOutput: 1000}
	assert.Equal(t, 512, m.ClampMaxTokens(512))
	assert.Equal(t, 1000, m.ClampMaxTokens(4096))
	assert.Equal(t, 4096, (&ModelCapabilities{}).ClampMaxTokens(4096))
}
