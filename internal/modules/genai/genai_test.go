package genai

import (
	"context"
	"testing"

	appcfg "github.com/HenryKang1/AI-market-researcher/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWithoutProvider(t *testing.T) {
	client := NewClient(appcfg.AIConfig{})

	_, err := client.Generate(context.Background(), nil, Spec{Shape: Schema{Type: TypeObject}})
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{Providers: []appcfg.AIProvider{
		{ID: "disabled", Enabled: false, DefaultModel: "m0"},
		{ID: "first", Enabled: true, DefaultModel: "m1"},
		{ID: "second", Enabled: true, DefaultModel: "m2"},
	}}

	p := selectProvider(cfg, nil)
	require.NotNil(t, p)
	assert.Equal(t, "first", p.ID, "first enabled provider wins without an assignment")

	p = selectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "second"})
	require.NotNil(t, p)
	assert.Equal(t, "second", p.ID)
	assert.Equal(t, "m2", p.DefaultModel)

	p = selectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "second", Model: "override"})
	require.NotNil(t, p)
	assert.Equal(t, "override", p.DefaultModel, "assignment model overrides the provider default")

	p = selectProvider(cfg, &appcfg.AIModelAssignment{ProviderID: "disabled"})
	require.NotNil(t, p)
	assert.Equal(t, "first", p.ID, "disabled assignment falls back to the first enabled provider")

	assert.Nil(t, selectProvider(appcfg.AIConfig{}, nil))
}

func TestProviderTypeNormalization(t *testing.T) {
	assert.True(t, isOpenAICompatibleProviderType("OpenAI-Compatible"))
	assert.True(t, isOpenAICompatibleProviderType("openai_compatible"))
	assert.False(t, isOpenAICompatibleProviderType("openai"))
	assert.True(t, isAnthropicProviderType(" Anthropic "))
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "https://llm.internal", normalizeOpenAICompatibleEndpoint("https://llm.internal/v1/"))
	assert.Equal(t, "https://llm.internal", normalizeOpenAICompatibleEndpoint("https://llm.internal"))
}
