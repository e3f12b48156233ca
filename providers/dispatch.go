package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oxhq/inkwell/cache"
	"github.com/oxhq/inkwell/core"
)

// Dispatcher implements the three input entry points of §6.1, wiring the
// fetch/cache layer (component C) to the Registry of per-format Provider
// implementations (component H).
type Dispatcher struct {
	Registry *Registry
	Fetcher  *cache.Fetcher
	Trees    *cache.TreeCache
	Walker   *cache.DirectoryWalker
}

// NewDispatcher builds a Dispatcher over an already-populated Registry.
// fetcher, trees, and walker may be nil to disable URL fetching, the
// parsed-tree memory cache, and directory listing respectively.
func NewDispatcher(registry *Registry, fetcher *cache.Fetcher, trees *cache.TreeCache, walker *cache.DirectoryWalker) *Dispatcher {
	return &Dispatcher{
		Registry: registry,
		Fetcher:  fetcher,
		Trees:    trees,
		Walker:   walker,
	}
}

// InputFromSource dispatches without fetching: it resolves a provider by
// typeHint and runs it over source directly (§6.1 input_from_source).
func (d *Dispatcher) InputFromSource(source []byte, typeHint string) (*core.Input, error) {
	provider, ok := d.Registry.Resolve(typeHint)
	if !ok {
		return nil, fmt.Errorf("no provider registered for type hint %q", typeHint)
	}

	in := core.NewInput(provider.Format(), nil)
	if err := provider.Parse(in, source); err != nil {
		in.Fail(core.ErrUnexpectedEOF, "parse failed: %v", err)
		return in, nil
	}
	return in, nil
}

// InputFromURL fetches url (consulting the parsed-tree memory cache first,
// then the fetch/cache layer for bytes) and dispatches to the matching
// provider (§6.1 input_from_url). A fetch failure or unrecognized type
// hint returns a nil Input, matching the spec's "returns null" contract.
func (d *Dispatcher) InputFromURL(ctx context.Context, url, typeHint string) (*core.Input, error) {
	if d.Trees != nil {
		if in, hit := d.Trees.Get(url); hit {
			return in, nil
		}
	}

	if d.Fetcher == nil {
		return nil, fmt.Errorf("dispatcher has no fetcher configured")
	}

	content, contentType, err := d.Fetcher.Fetch(ctx, url)
	if errors.Is(err, cache.ErrIsDirectory) {
		return d.inputFromDirectoryURL(url)
	}
	if err != nil {
		return nil, nil
	}

	hint := typeHint
	if hint == "" {
		hint = contentType
	}

	in, err := d.InputFromSource(content, hint)
	if err != nil {
		return nil, nil
	}

	if d.Trees != nil {
		d.Trees.Put(url, in)
	}
	return in, nil
}

func (d *Dispatcher) inputFromDirectoryURL(rawURL string) (*core.Input, error) {
	if d.Walker == nil {
		return nil, fmt.Errorf("dispatcher has no directory walker configured")
	}
	return d.InputFromDirectory(filePathFromURL(rawURL), true, 0)
}

// filePathFromURL strips a file:// scheme (if present) to recover a plain
// filesystem path for the directory walker.
func filePathFromURL(rawURL string) string {
	if !strings.HasPrefix(rawURL, "file://") {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.TrimPrefix(rawURL, "file://")
	}
	if u.Path != "" {
		return u.Path
	}
	return u.Opaque
}

// InputFromDirectory builds a synthetic ELEMENT tree listing the contents
// of the directory at path (§6.1 input_from_directory, §4.3).
func (d *Dispatcher) InputFromDirectory(path string, recursive bool, maxDepth int) (*core.Input, error) {
	if d.Walker == nil {
		return nil, fmt.Errorf("dispatcher has no directory walker configured")
	}

	in := core.NewInput("directory", nil)
	root, err := d.Walker.Walk(in, path, recursive, maxDepth)
	if err != nil {
		in.Fail(core.ErrUnexpectedEOF, "directory walk failed: %v", err)
		return in, nil
	}
	in.Root = root
	return in, nil
}
