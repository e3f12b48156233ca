// Package html5 implements the "html5" provider (§4): a tokenizer (§4.4)
// feeding a tree constructor (§4.5), producing a core.Element tree the same
// way every other format provider does, but via a hand-rolled state machine
// rather than a single-pass decoder since HTML5's error-recovery grammar has
// no streaming-decoder equivalent in the standard library.
package html5

import "github.com/oxhq/inkwell/core"

// Provider parses HTML5 source into a core.Item tree rooted at a synthetic
// "#document" element wrapping <html>.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (*Provider) Format() string       { return "html5" }
func (*Provider) Extensions() []string { return []string{".html", ".htm"} }
func (*Provider) MIMETypes() []string  { return []string{"text/html"} }

func (pr *Provider) Parse(in *core.Input, source []byte) error {
	tok := NewTokenizer(in, source)
	p := NewParser(in, tok)
	doc := p.Parse()
	if doc == nil {
		in.Fail(core.ErrUnexpectedEOF, "html5: empty document")
		return nil
	}
	in.Root = core.ElementItem(doc)
	return nil
}
