package validator

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/oxhq/inkwell/core"
)

// yamlTypeDef is one named-type entry of the native YAML type-registry DSL
// (§4.7.5): at most one of Map/Element/Union/Type is set, selecting the
// type's Kind the same way core.Type itself is a tagged union.
type yamlTypeDef struct {
	// Type is a type expression string for a type that's just an alias or a
	// bare primitive/array/occurrence wrapper, e.g. "string", "[int]", "Tree*".
	Type string `yaml:"type"`

	// Map declares a KindMap type: field name -> type expression.
	Map map[string]string `yaml:"map"`

	// Element declares a KindElement type.
	Element *yamlElementDef `yaml:"element"`

	// Union declares a KindUnion type: a list of type expressions.
	Union []string `yaml:"union"`
}

type yamlElementDef struct {
	Tag           string            `yaml:"tag"`
	Attrs         map[string]string `yaml:"attrs"`
	ContentLength *int              `yaml:"content_length"`
}

// LoadYAMLSchema parses the native type-registry DSL from data, registering
// every named type it defines into v (§4.7.5: "a schema definition ...
// producing type descriptors").
func LoadYAMLSchema(v *Validator, data []byte) error {
	var defs map[string]yamlTypeDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("validator: failed to parse yaml schema: %w", err)
	}

	names := core.NewNamePool()
	for name, def := range defs {
		t, err := buildYAMLType(names, def)
		if err != nil {
			return fmt.Errorf("validator: type %q: %w", name, err)
		}
		v.Register(name, t)
	}
	return nil
}

func buildYAMLType(names *core.NamePool, def yamlTypeDef) (*core.Type, error) {
	switch {
	case def.Map != nil:
		shape := core.NewShape()
		for field, expr := range def.Map {
			ft, err := parseTypeExpr(expr)
			if err != nil {
				return nil, err
			}
			shape.Add(names.Intern(field), ft)
		}
		return core.MapType(shape), nil

	case def.Element != nil:
		shape := core.NewShape()
		for attr, expr := range def.Element.Attrs {
			at, err := parseTypeExpr(expr)
			if err != nil {
				return nil, err
			}
			shape.Add(names.Intern(attr), at)
		}
		tag := names.Intern(def.Element.Tag)
		if def.Element.ContentLength != nil {
			return core.ElementTypeWithLength(tag, shape, *def.Element.ContentLength), nil
		}
		return core.ElementType(tag, shape), nil

	case len(def.Union) > 0:
		alts := make([]*core.Type, 0, len(def.Union))
		for _, expr := range def.Union {
			at, err := parseTypeExpr(expr)
			if err != nil {
				return nil, err
			}
			alts = append(alts, at)
		}
		return core.UnionType(alts...), nil

	case def.Type != "":
		return parseTypeExpr(def.Type)

	default:
		return nil, fmt.Errorf("empty type definition")
	}
}

var primitiveTags = map[string]core.Tag{
	"null":   core.TagNull,
	"bool":   core.TagBool,
	"int":    core.TagInt,
	"float":  core.TagFloat,
	"string": core.TagString,
	"symbol": core.TagSymbol,
}

// parseTypeExpr parses a compact type-expression string: an optional
// trailing occurrence operator ("?", "+", "*"), an optional "[...]" array
// wrapper, and a core — either a primitive keyword or a reference to
// another named type in the registry.
func parseTypeExpr(expr string) (*core.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	occ := core.OccurrenceOne
	switch expr[len(expr)-1] {
	case '?':
		occ, expr = core.OccurrenceOptional, expr[:len(expr)-1]
	case '+':
		occ, expr = core.OccurrenceOneOrMore, expr[:len(expr)-1]
	case '*':
		occ, expr = core.OccurrenceZeroOrMore, expr[:len(expr)-1]
	}
	expr = strings.TrimSpace(expr)

	var core_ *core.Type
	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		inner, err := parseTypeExpr(expr[1 : len(expr)-1])
		if err != nil {
			return nil, err
		}
		core_ = core.ArrayType(inner)
	} else if tag, ok := primitiveTags[expr]; ok {
		core_ = core.PrimitiveType(tag)
	} else {
		core_ = core.ReferenceType(expr)
	}

	if occ == core.OccurrenceOne {
		return core_, nil
	}
	return core.UnaryType(core_, occ), nil
}
