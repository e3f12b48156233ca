package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// TextileProvider parses Textile's block-level markup — headings (h1. ..
// h6.), bullet list items (* ), and paragraphs — into a "document" ELEMENT,
// the same shape as the Markdown and MediaWiki providers.
type TextileProvider struct{}

func NewTextile() *TextileProvider { return &TextileProvider{} }

func (*TextileProvider) Format() string       { return "textile" }
func (*TextileProvider) Extensions() []string { return []string{".textile"} }
func (*TextileProvider) MIMETypes() []string  { return []string{"text/x-textile"} }

func (p *TextileProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	doc := core.NewElement(in.Arena, names.Intern("document"))

	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		para := core.NewElement(in.Arena, names.Intern("paragraph"))
		para.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.Join(paragraph, " "))))
		doc.AddChild(core.ElementItem(para))
		paragraph = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())

		switch {
		case trimmed == "":
			flush()
		case isTextileHeading(trimmed):
			flush()
			level := int(trimmed[1] - '0')
			_, text, _ := strings.Cut(trimmed, ". ")
			h := core.NewElement(in.Arena, names.Intern("heading"))
			h.SetAttr(names.Intern("level"), core.Int(int64(level)))
			h.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.TrimSpace(text))))
			doc.AddChild(core.ElementItem(h))
		case strings.HasPrefix(trimmed, "* "):
			flush()
			item := core.NewElement(in.Arena, names.Intern("list_item"))
			item.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.TrimSpace(trimmed[2:]))))
			doc.AddChild(core.ElementItem(item))
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flush()

	in.Root = core.ElementItem(doc)
	return nil
}

func isTextileHeading(line string) bool {
	if len(line) < 3 || line[0] != 'h' || line[1] < '1' || line[1] > '6' {
		return false
	}
	return line[2] == '.'
}
