// Package validator implements the schema validator (component G, §4.7): a
// type-directed walker checking a core.Item tree against a core.Type,
// driven by a registry of named types populated from either a native YAML
// type-registry DSL (yamlschema.go) or an imported JSON Schema document
// (jsonschema.go).
package validator

import (
	"fmt"

	"github.com/oxhq/inkwell/core"
)

// PathKind discriminates one segment of a ValidationError's path.
type PathKind uint8

const (
	PathField PathKind = iota
	PathIndex
	PathAttribute
)

// PathSegment is one link of the path from the validated root to the value
// that failed (§4.7.1: "path is a linked list of path segments").
type PathSegment struct {
	Kind  PathKind
	Name  string
	Index int
}

func (s PathSegment) String() string {
	switch s.Kind {
	case PathIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case PathAttribute:
		return "@" + s.Name
	default:
		return s.Name
	}
}

// ValidationError is one structured failure (§4.7.1): a code, a message,
// and the path at which it occurred. Fatal is false for the one
// informational entry the cycle-detection decision (§12 open question 4)
// can produce — CYCLE_DETECTED marks a recursive reference was followed,
// not that validation failed.
type ValidationError struct {
	Code    core.ErrorCode
	Message string
	Path    []PathSegment
	Fatal   bool
}

func (e ValidationError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	path := ""
	for _, seg := range e.Path {
		path += seg.String()
	}
	return fmt.Sprintf("%s at %s: %s", e.Code, path, e.Message)
}

// ValidationResult is the validator's output (§4.7.1).
type ValidationResult struct {
	Valid      bool
	Errors     []ValidationError
	ErrorCount int
}

// Options configures a Validator (§4.7.3), defaults matching the spec's
// table: {false, true, true, 1024}.
type Options struct {
	StrictMode          bool
	AllowUnknownFields  bool
	AllowEmptyElements  bool
	MaxDepth            int
}

func DefaultOptions() Options {
	return Options{
		StrictMode:         false,
		AllowUnknownFields: true,
		AllowEmptyElements: true,
		MaxDepth:           1024,
	}
}

// Validator walks a core.Item against a core.Type, consulting a registry of
// named types for Reference variants (§4.7.5).
type Validator struct {
	Registry map[string]*core.Type
	Options  Options

	depth    int
	visiting map[string]bool
	errs     []ValidationError
}

// NewValidator builds a Validator with an empty type registry.
func NewValidator(opts Options) *Validator {
	return &Validator{
		Registry: make(map[string]*core.Type),
		Options:  opts,
	}
}

// Register adds (or overwrites — "later registrations overwrite earlier
// ones", §4.7.5) a named type.
func (v *Validator) Register(name string, t *core.Type) {
	v.Registry[name] = t
}

// Validate checks item against t, returning a fresh ValidationResult
// (§4.7.1 validate entry point).
func (v *Validator) Validate(item core.Item, t *core.Type) ValidationResult {
	v.depth = 0
	v.visiting = make(map[string]bool)
	v.errs = nil

	v.check(item, t, nil)

	fatalCount := 0
	for _, e := range v.errs {
		if e.Fatal {
			fatalCount++
		}
	}
	return ValidationResult{
		Valid:      fatalCount == 0,
		Errors:     v.errs,
		ErrorCount: fatalCount,
	}
}

func (v *Validator) fail(code core.ErrorCode, path []PathSegment, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    append([]PathSegment(nil), path...),
		Fatal:   true,
	})
}

func (v *Validator) info(code core.ErrorCode, path []PathSegment, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    append([]PathSegment(nil), path...),
		Fatal:   false,
	})
}

// check implements §4.7.2's type-directed dispatch, guarded by the §4.7.4
// depth counter.
func (v *Validator) check(item core.Item, t *core.Type, path []PathSegment) {
	if t == nil {
		v.fail(core.ErrTypeMismatch, path, "no type to validate against")
		return
	}

	v.depth++
	defer func() { v.depth-- }()
	if v.depth > v.Options.MaxDepth {
		v.fail(core.ErrDepthExceeded, path, "validation depth exceeded %d", v.Options.MaxDepth)
		return
	}

	switch t.Kind {
	case core.KindPrimitive:
		v.checkPrimitive(item, t, path)
	case core.KindArray:
		v.checkArray(item, t, path)
	case core.KindMap:
		v.checkMap(item, t, path)
	case core.KindElement:
		v.checkElement(item, t, path)
	case core.KindUnion:
		v.checkUnion(item, t, path)
	case core.KindUnary:
		// The occurrence operator is informational for a single-item check
		// (§4.7.2): "?", "+", and "*" are all satisfied by one value.
		v.check(item, t.Operand, path)
	case core.KindReference:
		v.checkReference(item, t, path)
	default:
		v.fail(core.ErrTypeMismatch, path, "unknown type kind")
	}
}

func (v *Validator) checkPrimitive(item core.Item, t *core.Type, path []PathSegment) {
	if item.Tag != t.Primitive {
		v.fail(core.ErrTypeMismatch, path, "expected %s, got %s", t.Primitive, item.Tag)
	}
}

func (v *Validator) checkArray(item core.Item, t *core.Type, path []PathSegment) {
	if item.Tag != core.TagArray {
		v.fail(core.ErrTypeMismatch, path, "expected array, got %s", item.Tag)
		return
	}
	list := item.Array()
	for i, it := range list.Items() {
		v.check(it, t.Element_, append(path, PathSegment{Kind: PathIndex, Index: i}))
	}
}

func (v *Validator) checkMap(item core.Item, t *core.Type, path []PathSegment) {
	if item.Tag != core.TagMap {
		v.fail(core.ErrTypeMismatch, path, "expected map, got %s", item.Tag)
		return
	}
	m := item.Map()
	shape := t.MapShape

	for _, entry := range shape.Entries {
		val, ok := m.GetByName(entry.Name)
		fieldPath := append(path, PathSegment{Kind: PathField, Name: entry.Name.String()})
		if !ok {
			if entry.Type != nil && entry.Type.Kind == core.KindUnary &&
				(entry.Type.Occurrence == core.OccurrenceOptional || entry.Type.Occurrence == core.OccurrenceZeroOrMore) {
				continue
			}
			v.fail(core.ErrMissingField, fieldPath, "missing field %q", entry.Name.String())
			continue
		}
		v.check(val, entry.Type, fieldPath)
	}

	if !v.Options.AllowUnknownFields {
		for _, name := range m.Names() {
			if _, declared := shape.Find(name); !declared {
				v.fail(core.ErrTypeMismatch, path, "unexpected field %q", name.String())
			}
		}
	}
}

func (v *Validator) checkElement(item core.Item, t *core.Type, path []PathSegment) {
	if item.Tag != core.TagElement {
		v.fail(core.ErrTypeMismatch, path, "expected element, got %s", item.Tag)
		return
	}
	elem := item.Element()
	if elem.Tag != t.ElemTag {
		v.fail(core.ErrTypeMismatch, path, "expected element <%s>, got <%s>", t.ElemTag, elem.Tag)
		return
	}

	if t.AttrShape != nil {
		for _, entry := range t.AttrShape.Entries {
			val, ok := elem.Attr(entry.Name)
			attrPath := append(path, PathSegment{Kind: PathAttribute, Name: entry.Name.String()})
			if !ok {
				v.fail(core.ErrMissingField, attrPath, "missing attribute %q", entry.Name.String())
				continue
			}
			v.check(val, entry.Type, attrPath)
		}
	}

	if t.HasContentLength && elem.ContentLength() != t.ContentLength {
		v.fail(core.ErrContentLengthMismatch, path, "expected %d children, got %d", t.ContentLength, elem.ContentLength())
	}

	if !v.Options.AllowEmptyElements && elem.ContentLength() == 0 {
		v.fail(core.ErrTypeMismatch, path, "empty element not allowed")
	}
}

func (v *Validator) checkUnion(item core.Item, t *core.Type, path []PathSegment) {
	savedErrs := v.errs
	for _, alt := range t.Alternatives {
		v.errs = nil
		v.check(item, alt, path)
		ok := true
		for _, e := range v.errs {
			if e.Fatal {
				ok = false
				break
			}
		}
		if ok {
			v.errs = savedErrs
			return
		}
	}
	v.errs = savedErrs
	v.fail(core.ErrUnionMismatch, path, "value matched none of %d alternatives", len(t.Alternatives))
}

func (v *Validator) checkReference(item core.Item, t *core.Type, path []PathSegment) {
	if v.visiting[t.RefName] {
		// Open question 4: a second visit to an already-visited type name is
		// treated as success (enables recursive data like a tree type
		// referencing itself), recorded as a non-fatal informational entry.
		v.info(core.ErrCycleDetected, path, "recursive reference to %q", t.RefName)
		return
	}
	target, ok := v.Registry[t.RefName]
	if !ok {
		v.fail(core.ErrTypeMismatch, path, "unknown referenced type %q", t.RefName)
		return
	}
	v.visiting[t.RefName] = true
	v.check(item, target, path)
	delete(v.visiting, t.RefName)
}
