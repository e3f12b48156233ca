package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/inkwell/core"
)

// DirectoryWalker builds a synthetic ELEMENT tree for a file:// directory
// URL (§4.3: "Directory URLs ... yield a synthetic ELEMENT tree listing
// entries recursively, with a caller-supplied max_depth").
//
// Grounded on the teacher's core.FileWalker: the include/exclude glob
// matching (doublestar) and max-depth bookkeeping are carried over verbatim
// in spirit. The teacher's version fans entries out over a worker-pool of
// goroutines onto a flat result channel, which suits a language scanner
// that doesn't care about nesting; a directory *tree* has a sequential
// nesting dependency — a directory's Element can't be finished until every
// child subdirectory has finished recursing — so this version walks
// depth-first and builds the core.Element tree directly instead.
type DirectoryWalker struct {
	Include []string
	Exclude []string
}

func NewDirectoryWalker() *DirectoryWalker {
	return &DirectoryWalker{}
}

const truncatedAttrName = "truncated"

// Walk builds the ELEMENT tree rooted at path. maxDepth <= 0 means
// unlimited recursion; maxDepth > 0 truncates directories beyond that depth
// and marks them with a `truncated:true` attribute rather than silently
// omitting them (SPEC_FULL §11).
func (w *DirectoryWalker) Walk(in *core.Input, path string, recursive bool, maxDepth int) (core.Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return core.Null, fmt.Errorf("cache: cannot stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return core.Null, fmt.Errorf("cache: %s is not a directory", path)
	}
	return w.walk(in, path, recursive, maxDepth, 0), nil
}

func (w *DirectoryWalker) walk(in *core.Input, path string, recursive bool, maxDepth, depth int) core.Item {
	names := in.Names
	dir := core.NewElement(in.Arena, names.Intern("directory"))
	dir.SetAttr(names.Intern("name"), core.StringItem(core.NewStringFromString(in.Arena, filepath.Base(path))))
	dir.SetAttr(names.Intern("path"), core.StringItem(core.NewStringFromString(in.Arena, path)))

	if maxDepth > 0 && depth >= maxDepth {
		dir.SetAttr(names.Intern(truncatedAttrName), core.Bool(true))
		return core.ElementItem(dir)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		dir.SetAttr(names.Intern("error"), core.StringItem(core.NewStringFromString(in.Arena, err.Error())))
		return core.ElementItem(dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if w.isExcluded(full) {
			continue
		}
		if entry.IsDir() {
			if !recursive {
				continue
			}
			dir.AddChild(w.walk(in, full, recursive, maxDepth, depth+1))
			continue
		}
		if !w.isIncluded(full) {
			continue
		}
		dir.AddChild(w.fileEntry(in, full, entry))
	}

	return core.ElementItem(dir)
}

func (w *DirectoryWalker) fileEntry(in *core.Input, path string, entry os.DirEntry) core.Item {
	names := in.Names
	file := core.NewElement(in.Arena, names.Intern("file"))
	file.SetAttr(names.Intern("name"), core.StringItem(core.NewStringFromString(in.Arena, entry.Name())))
	file.SetAttr(names.Intern("path"), core.StringItem(core.NewStringFromString(in.Arena, path)))
	if info, err := entry.Info(); err == nil {
		file.SetAttr(names.Intern("size"), core.Int(info.Size()))
	}
	return core.ElementItem(file)
}

func (w *DirectoryWalker) isIncluded(path string) bool {
	if len(w.Include) == 0 {
		return true
	}
	for _, pattern := range w.Include {
		if w.matches(path, pattern) {
			return true
		}
	}
	return false
}

func (w *DirectoryWalker) isExcluded(path string) bool {
	for _, pattern := range w.Exclude {
		if w.matches(path, pattern) {
			return true
		}
	}
	return false
}

func (w *DirectoryWalker) matches(path, pattern string) bool {
	if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}
