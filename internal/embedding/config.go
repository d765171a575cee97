// Package embedding generates fixed-dimension text vectors for candidates and job queries.
package embedding

import (
	"fmt"
)

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

const (
	// DefaultModel is the Gemini embedding model
	DefaultModel = "text-embedding-004"
	// DefaultDimension is the vector size produced by DefaultModel
	DefaultDimension = 768
)

// Config holds the embedding model configuration
type Config struct {
	Provider  Provider `json:"provider" koanf:"provider"`
	Model     string   `json:"model" koanf:"model"`
	Dimension int      `json:"dimension" koanf:"dimension"`
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderGemini,
		Model:     DefaultModel,
		Dimension: DefaultDimension,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	if c.Model == "" {
		c.Model = def.Model
	}
	if c.Dimension == 0 {
		c.Dimension = def.Dimension
	}
	return c
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Provider != ProviderGemini {
		return fmt.Errorf("unsupported embedding provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("embedding model is required")
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Dimension)
	}
	return nil
}
