package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// MediaWikiProvider parses MediaWiki markup's headings (== .. ======) and
// bullet list items (* ) into a "document" ELEMENT, the same shape as the
// Markdown provider, grouping everything else into "paragraph" elements.
type MediaWikiProvider struct{}

func NewMediaWiki() *MediaWikiProvider { return &MediaWikiProvider{} }

func (*MediaWikiProvider) Format() string       { return "mediawiki" }
func (*MediaWikiProvider) Extensions() []string { return []string{".wiki", ".mediawiki"} }
func (*MediaWikiProvider) MIMETypes() []string  { return []string{"text/x-mediawiki"} }

func (p *MediaWikiProvider) Parse(in *core.Input, source []byte) error {
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
		case isWikiHeading(trimmed):
			flush()
			level, text := parseWikiHeading(trimmed)
			h := core.NewElement(in.Arena, names.Intern("heading"))
			h.SetAttr(names.Intern("level"), core.Int(int64(level)))
			h.AddChild(core.StringItem(core.NewStringFromString(in.Arena, text)))
			doc.AddChild(core.ElementItem(h))
		case strings.HasPrefix(trimmed, "*"):
			flush()
			item := core.NewElement(in.Arena, names.Intern("list_item"))
			item.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.TrimSpace(strings.TrimLeft(trimmed, "*")))))
			doc.AddChild(core.ElementItem(item))
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flush()

	in.Root = core.ElementItem(doc)
	return nil
}

func isWikiHeading(line string) bool {
	if !strings.HasPrefix(line, "==") {
		return false
	}
	i := 0
	for i < len(line) && line[i] == '=' {
		i++
	}
	return i <= 6 && strings.HasSuffix(line, strings.Repeat("=", i))
}

func parseWikiHeading(line string) (int, string) {
	i := 0
	for i < len(line) && line[i] == '=' {
		i++
	}
	text := strings.TrimSuffix(line, strings.Repeat("=", i))
	text = strings.TrimPrefix(text, strings.Repeat("=", i))
	return i, strings.TrimSpace(text)
}
