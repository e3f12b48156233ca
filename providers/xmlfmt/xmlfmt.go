// Package xmlfmt implements the "xml" provider (§6.2): a thin parser built
// on encoding/xml's streaming tokenizer, converting elements directly into
// core.Element nodes rather than a Go struct (for the same reasons given
// in providers/jsonfmt).
package xmlfmt

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/oxhq/inkwell/core"
)

// Provider parses XML source into a core.Item tree of core.Element nodes.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (*Provider) Format() string       { return "xml" }
func (*Provider) Extensions() []string { return []string{".xml"} }
func (*Provider) MIMETypes() []string  { return []string{"application/xml", "text/xml"} }

func (p *Provider) Parse(in *core.Input, source []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(source))

	root, err := parseNext(in, dec)
	if err != nil {
		in.Fail(core.ErrUnexpectedToken, "xml: %v", err)
		return nil
	}
	if root.IsNull() {
		in.Fail(core.ErrUnexpectedEOF, "xml: empty document")
		return nil
	}
	in.Root = root
	return nil
}

// parseNext scans forward, skipping ProcInst/Directive/Comment tokens,
// until it finds the next element's StartElement and parses its subtree.
func parseNext(in *core.Input, dec *xml.Decoder) (core.Item, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return core.Null, nil
		}
		if err != nil {
			return core.Null, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(in, dec, start)
		}
	}
}

func parseElement(in *core.Input, dec *xml.Decoder, start xml.StartElement) (core.Item, error) {
	names := in.Names
	elem := core.NewElement(in.Arena, names.Intern(start.Name.Local))

	for _, attr := range start.Attr {
		elem.SetAttr(names.Intern(attr.Name.Local), core.StringItem(core.NewStringFromString(in.Arena, attr.Value)))
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return core.Null, fmt.Errorf("unterminated element %q: %w", start.Name.Local, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(in, dec, t)
			if err != nil {
				return core.Null, err
			}
			elem.AddChild(child)
		case xml.CharData:
			text := bytes.TrimSpace(t)
			if len(text) == 0 {
				continue
			}
			elem.AddChild(core.StringItem(core.NewString(in.Arena, append([]byte(nil), text...))))
		case xml.EndElement:
			return core.ElementItem(elem), nil
		}
	}
}
