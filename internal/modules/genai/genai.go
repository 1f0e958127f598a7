// Package genai is the single gateway for language-model calls. Callers hand
// it a fully rendered prompt plus a declarative output shape; it picks the
// provider, makes exactly one attempt, and returns schema-checked JSON or a
// GenerationError. No retries happen here.
package genai

import (
	"context"
	"encoding/json"
	"strings"

	appcfg "github.com/HenryKang1/AI-market-researcher/internal/config"
)

const defaultMaxTokens = 4096

// Spec is a single generation request: rendered prompts plus the shape the
// reply must match.
type Spec struct {
	System    string
	Prompt    string
	Shape     Schema
	MaxTokens int
}

// Generator is the interface consumed by the pipeline stages. *Client is the
// production implementation; tests substitute scripted fakes.
type Generator interface {
	Generate(ctx context.Context, assignment *appcfg.AIModelAssignment, spec Spec) (json.RawMessage, error)
}

// Client routes generation requests to the configured providers.
type Client struct {
	cfg appcfg.AIConfig
}

func NewClient(cfg appcfg.AIConfig) *Client {
	return &Client{cfg: cfg}
}

// Generate makes one provider call and validates the reply against the spec's
// shape. Any failure, from transport to schema, comes back as a
// *GenerationError.
func (c *Client) Generate(ctx context.Context, assignment *appcfg.AIModelAssignment, spec Spec) (json.RawMessage, error) {
	provider := selectProvider(c.cfg, assignment)
	if provider == nil {
		return nil, generationErr("no enabled provider")
	}

	maxTokens := spec.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	raw, err := callProvider(ctx, provider, spec.System, spec.Prompt, maxTokens)
	if err != nil {
		return nil, wrapGenerationErr(err)
	}

	doc, err := ExtractJSON(raw, spec.Shape.Type)
	if err != nil {
		return nil, wrapGenerationErr(err)
	}
	if err := spec.Shape.Validate(doc); err != nil {
		return nil, wrapGenerationErr(err)
	}
	return doc, nil
}

// ExtractJSON pulls a JSON document out of model output. Models wrap replies
// in markdown fences or add prose around the payload; strip the fences first,
// then fall back to slicing out the outermost document of the wanted kind.
func ExtractJSON(raw string, want FieldType) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), nil
	}

	opener, closer := "{", "}"
	if want == TypeArray {
		opener, closer = "[", "]"
	}
	start := strings.Index(cleaned, opener)
	end := strings.LastIndex(cleaned, closer)
	if start >= 0 && end > start {
		sliced := cleaned[start : end+1]
		if json.Valid([]byte(sliced)) {
			return json.RawMessage(sliced), nil
		}
	}

	return nil, generationErr("reply is not valid JSON")
}
