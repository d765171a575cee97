package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Embedder is an abstraction over embedding providers
type Embedder interface {
	// Embed returns the vector of one text
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedSections returns one vector per named section, skipping blank sections
	EmbedSections(ctx context.Context, sections map[string]string) (map[string][]float64, error)
	// Close releases any resources held by the embedder
	Close() error
}

// backend is the provider call surface used by GeminiEmbedder
type backend interface {
	embed(ctx context.Context, text string) ([]float32, error)
	embedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// GeminiEmbedder implements Embedder for Google Gemini
type GeminiEmbedder struct {
	client  *genai.Client
	backend backend
	config  Config
}

// NewEmbedder creates a new embedder based on configuration
func NewEmbedder(ctx context.Context, config Config, apiKey string) (Embedder, error) {
	return NewGeminiEmbedder(ctx, config, apiKey)
}

// NewGeminiEmbedder creates a new Gemini embedder
func NewGeminiEmbedder(ctx context.Context, config Config, apiKey string) (*GeminiEmbedder, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client:  client,
		backend: &geminiBackend{model: client.EmbeddingModel(config.Model)},
		config:  config,
	}, nil
}

// Embed returns the vector of text. Blank text is an input error.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &types.InputError{Field: "text", Message: "text to embed is empty"}
	}
	values, err := e.backend.embed(ctx, text)
	if err != nil {
		return nil, &types.DependencyError{Dependency: "embedding", Message: "failed to embed text", Cause: err}
	}
	return e.convert(values)
}

// EmbedSections embeds every non-blank section in one batch call
func (e *GeminiEmbedder) EmbedSections(ctx context.Context, sections map[string]string) (map[string][]float64, error) {
	names := make([]string, 0, len(sections))
	for name, text := range sections {
		if strings.TrimSpace(text) != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return map[string][]float64{}, nil
	}
	sort.Strings(names)

	texts := make([]string, len(names))
	for i, name := range names {
		texts[i] = sections[name]
	}
	batch, err := e.backend.embedBatch(ctx, texts)
	if err != nil {
		return nil, &types.DependencyError{Dependency: "embedding", Message: "failed to embed sections", Cause: err}
	}
	if len(batch) != len(names) {
		return nil, &types.DependencyError{
			Dependency: "embedding",
			Message:    fmt.Sprintf("expected %d section vectors, got %d", len(names), len(batch)),
		}
	}

	out := make(map[string][]float64, len(names))
	for i, name := range names {
		vec, err := e.convert(batch[i])
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		out[name] = vec
	}
	return out, nil
}

// Dimension returns the configured vector size
func (e *GeminiEmbedder) Dimension() int {
	return e.config.Dimension
}

// Close releases the underlying client
func (e *GeminiEmbedder) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

// convert widens a provider vector and checks its dimension
func (e *GeminiEmbedder) convert(values []float32) ([]float64, error) {
	if len(values) != e.config.Dimension {
		return nil, &types.DependencyError{
			Dependency: "embedding",
			Message:    fmt.Sprintf("expected dimension %d, got %d", e.config.Dimension, len(values)),
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}

type geminiBackend struct {
	model *genai.EmbeddingModel
}

func (b *geminiBackend) embed(ctx context.Context, text string) ([]float32, error) {
	res, err := b.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("empty embedding response")
	}
	return res.Embedding.Values, nil
}

func (b *geminiBackend) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := b.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	res, err := b.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(res.Embeddings))
	for _, emb := range res.Embeddings {
		if emb == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, emb.Values)
	}
	return out, nil
}
