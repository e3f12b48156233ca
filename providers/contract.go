// Package providers holds the format dispatcher (component H, §4.8): a
// Registry of per-format Provider implementations plus the entry points
// that fetch/read a document and route it to its parser, adapted from the
// teacher's providers/contract.go Provider+Registry pattern (language
// dispatch) repurposed for document-format dispatch.
package providers

import (
	"github.com/oxhq/inkwell/core"
	"github.com/oxhq/inkwell/providers/catalog"
)

// Provider is a per-format parser, the uniform shape every parser in
// §4.8/§6.2 conforms to: parse(Input*, source) -> void, with the result
// landing in in.Root.
type Provider interface {
	// Format is the dispatcher's identifier for this parser ("html5",
	// "json", "math:latex", ...).
	Format() string

	// Extensions lists the file extensions this provider claims (with a
	// leading dot, e.g. ".html").
	Extensions() []string

	// MIMETypes lists the MIME types this provider claims.
	MIMETypes() []string

	// Parse parses source into in, setting in.Root to the parsed value or
	// an ERROR item on failure (§4.8 step 3). Non-fatal issues are
	// recorded on in.Errors rather than returned.
	Parse(in *core.Input, source []byte) error
}

// Registry holds every registered Provider, keyed by format identifier.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider, indexing its extensions and MIME types in the
// catalog for lookup-by-hint dispatch.
func (r *Registry) Register(provider Provider) {
	r.providers[provider.Format()] = provider
	catalog.Register(catalog.FormatInfo{
		ID:         provider.Format(),
		Extensions: provider.Extensions(),
		MIMETypes:  provider.MIMETypes(),
	})
}

// Get retrieves a provider by format identifier.
func (r *Registry) Get(format string) (Provider, bool) {
	p, exists := r.providers[format]
	return p, exists
}

// Resolve finds a provider for a type hint, trying it first as a format
// identifier, then as a MIME type, then as a file extension.
func (r *Registry) Resolve(typeHint string) (Provider, bool) {
	if p, ok := r.providers[typeHint]; ok {
		return p, true
	}
	if info, ok := catalog.LookupByMIME(typeHint); ok {
		return r.Get(info.ID)
	}
	if info, ok := catalog.LookupByExtension(typeHint); ok {
		return r.Get(info.ID)
	}
	return nil, false
}

// List returns all registered providers.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	return result
}

// Formats returns all registered format identifiers.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.providers))
	for k := range r.providers {
		formats = append(formats, k)
	}
	return formats
}
