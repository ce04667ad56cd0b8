package vanilla

import (
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the bundled theme.
const DefaultThemeName = "formwizard"

// DefaultManifest describes the bundled look: the purple gradient palette and
// a "dark" variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"primary":   "#667eea",
			"secondary": "#764ba2",
			"surface":   "#ffffff",
			"text":      "#2d3748",
			"error":     "#e53e3e",
			"success":   "#38a169",
		},
		Templates: map[string]string{
			"wizard.page": pageTemplate,
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetKey: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#1a202c",
					"text":    "#edf2f7",
				},
			},
		},
	}
}

// ThemeSelector resolves theme/variant names against a fixed set of
// manifests. Blank names fall back to the configured defaults.
type ThemeSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeSelector)(nil)

// NewThemeSelector validates manifests through a go-theme registry and
// indexes them by name.
func NewThemeSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ThemeSelector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	s := &ThemeSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("vanilla theme: register %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
	}
	if s.defaultTheme == "" {
		s.defaultTheme = manifests[0].Name
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("vanilla theme: default theme %q not registered", s.defaultTheme)
	}
	return s, nil
}

// Select returns the named theme and variant. Unknown variants are an error;
// a blank variant selects the base tokens.
func (s *ThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("vanilla theme: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla theme: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into the tokens, CSS variables,
// partials and asset resolver a renderer consumes. Variant values override
// the base manifest.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	partials := mergeStrings(manifest.Templates, variant.Templates)
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}
