// Package jsonfmt implements the "json" provider (§6.2): a thin parser
// that decodes JSON into the toolchain's tagged-value tree (component A)
// rather than any JSON-specific Go struct. Grounded on the teacher's
// preference for stdlib where the corpus offers nothing better: no example
// repo carries a JSON decoder that targets an arena-owned item tree, so
// this uses encoding/json's streaming Decoder as the token source and
// builds core.Item nodes directly, keeping the same "decode into our own
// value model" shape the HTML5 and math parsers use for their own formats.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/oxhq/inkwell/core"
)

// Provider parses JSON source into a core.Item tree.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (*Provider) Format() string       { return "json" }
func (*Provider) Extensions() []string { return []string{".json"} }
func (*Provider) MIMETypes() []string  { return []string{"application/json"} }

func (p *Provider) Parse(in *core.Input, source []byte) error {
	dec := json.NewDecoder(bytes.NewReader(source))
	dec.UseNumber()

	value, err := decodeValue(in, dec)
	if err != nil {
		in.Fail(core.ErrUnexpectedToken, "json: %v", err)
		return nil
	}
	in.Root = value
	return nil
}

func decodeValue(in *core.Input, dec *json.Decoder) (core.Item, error) {
	tok, err := dec.Token()
	if err != nil {
		return core.Null, err
	}
	return itemFromToken(in, dec, tok)
}

func itemFromToken(in *core.Input, dec *json.Decoder, tok json.Token) (core.Item, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(in, dec)
		case '[':
			return decodeArray(in, dec)
		default:
			return core.Null, fmt.Errorf("unexpected delimiter %q", t)
		}
	case nil:
		return core.Null, nil
	case bool:
		return core.Bool(t), nil
	case json.Number:
		return numberItem(in, t)
	case string:
		return core.StringItem(core.NewStringFromString(in.Arena, t)), nil
	default:
		return core.Null, fmt.Errorf("unhandled json token type %T", tok)
	}
}

func numberItem(in *core.Input, n json.Number) (core.Item, error) {
	if i, err := n.Int64(); err == nil {
		return core.Int(i), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return core.Null, fmt.Errorf("invalid json number %q", n.String())
	}
	return core.Float(in.Arena, f), nil
}

func decodeObject(in *core.Input, dec *json.Decoder) (core.Item, error) {
	m := core.NewMap(in.Arena)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return core.Null, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return core.Null, fmt.Errorf("expected object key, got %v", keyTok)
		}

		val, err := decodeValue(in, dec)
		if err != nil {
			return core.Null, err
		}
		m.Put(in.Names.Intern(key), val)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return core.Null, err
	}
	return core.MapItem(m), nil
}

func decodeArray(in *core.Input, dec *json.Decoder) (core.Item, error) {
	l := core.NewList(in.Arena)
	for dec.More() {
		val, err := decodeValue(in, dec)
		if err != nil {
			return core.Null, err
		}
		l.Push(val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return core.Null, err
	}
	return core.ArrayItem(l), nil
}
