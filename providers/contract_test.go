package providers

import (
	"testing"

	"github.com/oxhq/inkwell/core"
)

// stubProvider is a minimal Provider used to exercise the Registry without
// depending on any real format parser.
type stubProvider struct {
	format     string
	extensions []string
	mimeTypes  []string
}

func (s *stubProvider) Format() string       { return s.format }
func (s *stubProvider) Extensions() []string { return s.extensions }
func (s *stubProvider) MIMETypes() []string  { return s.mimeTypes }

func (s *stubProvider) Parse(in *core.Input, source []byte) error {
	in.Root = core.StringItem(core.NewString(in.Arena, source))
	return nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry should return non-nil registry")
	}
	if registry.providers == nil {
		t.Fatal("Registry providers map should be initialized")
	}
}

func TestRegisterAndGetProvider(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubProvider{format: "json", extensions: []string{".json"}, mimeTypes: []string{"application/json"}})

	provider, exists := registry.Get("json")
	if !exists {
		t.Fatal("provider should be registered")
	}
	if provider.Format() != "json" {
		t.Errorf("expected format 'json', got %q", provider.Format())
	}
}

func TestResolveByMIMEAndExtension(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubProvider{format: "html5", extensions: []string{".html", ".htm"}, mimeTypes: []string{"text/html"}})

	tests := []struct {
		name     string
		hint     string
		wantHit  bool
		wantName string
	}{
		{name: "format id", hint: "html5", wantHit: true, wantName: "html5"},
		{name: "mime type", hint: "text/html", wantHit: true, wantName: "html5"},
		{name: "extension", hint: ".htm", wantHit: true, wantName: "html5"},
		{name: "unknown hint", hint: "application/x-nonsense", wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ok := registry.Resolve(tt.hint)
			if ok != tt.wantHit {
				t.Fatalf("expected hit=%v, got %v", tt.wantHit, ok)
			}
			if tt.wantHit && provider.Format() != tt.wantName {
				t.Errorf("expected format %q, got %q", tt.wantName, provider.Format())
			}
		})
	}
}

func TestMultipleProvidersAndFormats(t *testing.T) {
	registry := NewRegistry()
	stubs := []*stubProvider{
		{format: "json", extensions: []string{".json"}},
		{format: "xml", extensions: []string{".xml"}},
		{format: "csv", extensions: []string{".csv"}},
	}
	for _, s := range stubs {
		registry.Register(s)
	}

	for _, expected := range stubs {
		provider, exists := registry.Get(expected.format)
		if !exists {
			t.Errorf("provider %s should exist", expected.format)
			continue
		}
		if provider.Format() != expected.format {
			t.Errorf("expected format %s, got %s", expected.format, provider.Format())
		}
	}

	if len(registry.Formats()) != len(stubs) {
		t.Errorf("expected %d formats, got %d", len(stubs), len(registry.Formats()))
	}
	if len(registry.List()) != len(stubs) {
		t.Errorf("expected %d providers, got %d", len(stubs), len(registry.List()))
	}
}

func TestProviderOverwrite(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubProvider{format: "json", extensions: []string{".json"}})
	registry.Register(&stubProvider{format: "json", extensions: []string{".json", ".jsonl"}})

	retrieved, exists := registry.Get("json")
	if !exists {
		t.Fatal("provider should exist")
	}
	if len(retrieved.Extensions()) != 2 {
		t.Error("should have gotten the second provider with 2 extensions")
	}
}
