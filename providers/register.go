package providers

import (
	"github.com/oxhq/inkwell/providers/csvfmt"
	"github.com/oxhq/inkwell/providers/html5"
	"github.com/oxhq/inkwell/providers/jsonfmt"
	"github.com/oxhq/inkwell/providers/mark"
	"github.com/oxhq/inkwell/providers/mathparse"
	"github.com/oxhq/inkwell/providers/simple"
	"github.com/oxhq/inkwell/providers/xmlfmt"
)

// NewDefaultRegistry builds a Registry with every format provider this
// module ships registered under its format identifier, the wiring step
// the dispatcher (component H, §4.8) needs before it can resolve any
// type hint.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(jsonfmt.New())
	r.Register(xmlfmt.New())
	r.Register(csvfmt.New())
	r.Register(mark.New())
	r.Register(html5.New())
	r.Register(mathparse.NewLatex())
	r.Register(mathparse.NewTypst())
	r.Register(mathparse.NewAsciiMath())
	r.Register(simple.NewCSS())
	r.Register(simple.NewEML())
	r.Register(simple.NewMan())
	r.Register(simple.NewMarkdown())
	r.Register(simple.NewMediaWiki())
	r.Register(simple.NewRTF())
	r.Register(simple.NewTextile())
	r.Register(simple.NewVCF())
	return r
}
