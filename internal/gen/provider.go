// Package gen provides AI text-generation clients for the reflection feed.
// Providers produce short teaser reflections in batches and expand a single
// reflection into a full essay on demand.
package gen

import (
	"context"
)

// Provider is the interface for AI providers.
type Provider interface {
	// Name returns the provider name (e.g., "ollama", "anthropic")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an AI provider.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response is the AI provider's response.
type Response struct {
	Content string
	Model   string
}

// Picker holds multiple AI providers and selects one with fallback.
type Picker struct {
	providers []Provider
	preferred string
}

// NewPicker creates an empty provider picker.
func NewPicker() *Picker {
	return &Picker{}
}

// Add registers a provider. Nil providers are ignored.
func (p *Picker) Add(prov Provider) {
	if prov != nil {
		p.providers = append(p.providers, prov)
	}
}

// SetPreferred sets the preferred provider by name.
func (p *Picker) SetPreferred(name string) {
	p.preferred = name
}

// Pick returns the preferred provider if available, else the first
// available one, else nil.
func (p *Picker) Pick() Provider {
	if p.preferred != "" {
		for _, prov := range p.providers {
			if prov.Name() == p.preferred && prov.Available() {
				return prov
			}
		}
	}
	for _, prov := range p.providers {
		if prov.Available() {
			return prov
		}
	}
	return nil
}

// Available returns the names of all available providers.
func (p *Picker) Available() []string {
	var names []string
	for _, prov := range p.providers {
		if prov.Available() {
			names = append(names, prov.Name())
		}
	}
	return names
}
