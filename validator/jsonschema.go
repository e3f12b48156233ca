package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/oxhq/inkwell/core"
)

// LoadJSONSchema imports an external JSON Schema document into v's native
// type registry (§10 domain stack: jsonschema-go is the pack's JSON Schema
// implementation; this converts its Schema tree into the Map/Array/
// Union/Reference core.Type variants the validator already walks, so
// schema-driven validation can consume a standard JSON Schema alongside the
// native YAML DSL). rootName is the registry key the top-level schema is
// registered under; any "$defs" entries are registered under their own
// names too, reachable via Reference. A "definitions" block is not read.
func LoadJSONSchema(v *Validator, data []byte, rootName string) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("validator: failed to parse json schema: %w", err)
	}

	names := core.NewNamePool()
	for defName, def := range schema.Defs {
		v.Register(defName, jsonSchemaToType(names, def))
	}
	v.Register(rootName, jsonSchemaToType(names, &schema))
	return nil
}

var jsonSchemaPrimitives = map[string]core.Tag{
	"string":  core.TagString,
	"integer": core.TagInt,
	"number":  core.TagFloat,
	"boolean": core.TagBool,
	"null":    core.TagNull,
}

func jsonSchemaToType(names *core.NamePool, s *jsonschema.Schema) *core.Type {
	if s == nil {
		return core.PrimitiveType(core.TagNull)
	}

	if s.Ref != "" {
		return core.ReferenceType(refName(s.Ref))
	}

	if len(s.AnyOf) > 0 {
		alts := make([]*core.Type, 0, len(s.AnyOf))
		for _, alt := range s.AnyOf {
			alts = append(alts, jsonSchemaToType(names, alt))
		}
		return core.UnionType(alts...)
	}

	switch s.Type {
	case "object":
		shape := core.NewShape()
		required := make(map[string]bool, len(s.Required))
		for _, r := range s.Required {
			required[r] = true
		}
		for name, prop := range s.Properties {
			ft := jsonSchemaToType(names, prop)
			if !required[name] {
				ft = core.UnaryType(ft, core.OccurrenceOptional)
			}
			shape.Add(names.Intern(name), ft)
		}
		return core.MapType(shape)

	case "array":
		return core.ArrayType(jsonSchemaToType(names, s.Items))

	default:
		if tag, ok := jsonSchemaPrimitives[s.Type]; ok {
			return core.PrimitiveType(tag)
		}
		return core.PrimitiveType(core.TagString)
	}
}

// refName recovers a bare name from a "#/$defs/Foo" or "#/definitions/Foo"
// JSON pointer, matching the keys LoadJSONSchema registers $defs entries
// under.
func refName(ref string) string {
	i := strings.LastIndexByte(ref, '/')
	if i == -1 {
		return ref
	}
	return ref[i+1:]
}
