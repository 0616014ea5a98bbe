package systemprompt

import (
	"fmt"
	"strings"
)

// Generator builds the system instruction sent ahead of a conversation
type Generator interface {
	Generate() string
	// ContextProvider retrieves a context provider by name.
	// If the context provider is not found returns not found error
	ContextProvider(title string) (ContextProvider, error)
	// AddContextProviders registers new context providers
	AddContextProviders(providers ...ContextProvider)
	// RemoveContextProviders Unregisters an existing context provider.
	RemoveContextProviders(titles ...string)
}

type BaseGenerator struct {
	contextProviders []ContextProvider
}

func (g *BaseGenerator) ContextProviders() []ContextProvider {
	return g.contextProviders
}

// ContextProvider retrieves a context provider by name.
// If the context provider is not found returns not found error
func (g *BaseGenerator) ContextProvider(title string) (ContextProvider, error) {
	for _, p := range g.contextProviders {
		if p.Title() == title {
			return p, nil
		}
	}
	return nil, fmt.Errorf("context provider '%s' not found", title)
}

// AddContextProviders registers new context providers, titles already
// registered are ignored
func (g *BaseGenerator) AddContextProviders(providers ...ContextProvider) {
	for _, provider := range providers {
		if _, err := g.ContextProvider(provider.Title()); err != nil {
			g.contextProviders = append(g.contextProviders, provider)
		}
	}
}

// RemoveContextProviders Unregisters existing context providers.
func (g *BaseGenerator) RemoveContextProviders(titles ...string) {
	mp := make(map[string]struct{}, len(titles))
	for _, v := range titles {
		mp[v] = struct{}{}
	}
	providers := make([]ContextProvider, 0, len(g.contextProviders))
	for _, p := range g.contextProviders {
		if _, found := mp[p.Title()]; found {
			continue
		}
		providers = append(providers, p)
	}
	g.contextProviders = providers
}

// ContextSection renders the "EXTRA INFORMATION AND CONTEXT" section.
// Providers with empty info are skipped; an empty slice is returned when
// nothing is left to render.
func (g *BaseGenerator) ContextSection() []string {
	var parts []string
	for _, provider := range g.contextProviders {
		info := provider.Info()
		if info == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s", provider.Title()), info, "")
	}
	if len(parts) == 0 {
		return nil
	}
	return append([]string{"# EXTRA INFORMATION AND CONTEXT"}, parts...)
}

// Join assembles prompt lines into the final instruction
func Join(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
