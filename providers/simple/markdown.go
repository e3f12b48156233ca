package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// MarkdownProvider parses a useful subset of Markdown into a "document"
// ELEMENT: ATX headings (# .. ######) become "heading" elements with a
// "level" attribute, list items (-, *, + or N.) become "list_item"
// elements, fenced code blocks become "code_block" elements with a "lang"
// attribute, and everything else is grouped into "paragraph" elements by
// blank-line separation.
type MarkdownProvider struct{}

func NewMarkdown() *MarkdownProvider { return &MarkdownProvider{} }

func (*MarkdownProvider) Format() string       { return "md" }
func (*MarkdownProvider) Extensions() []string { return []string{".md", ".markdown"} }
func (*MarkdownProvider) MIMETypes() []string  { return []string{"text/markdown"} }

func (p *MarkdownProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	doc := core.NewElement(in.Arena, names.Intern("document"))

	var paragraph []string
	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		para := core.NewElement(in.Arena, names.Intern("paragraph"))
		text := strings.Join(paragraph, " ")
		para.AddChild(core.StringItem(core.NewStringFromString(in.Arena, text)))
		doc.AddChild(core.ElementItem(para))
		paragraph = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	var inCode bool
	var codeLang string
	var codeLines []string

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if inCode {
			if strings.HasPrefix(trimmed, "```") {
				inCode = false
				code := core.NewElement(in.Arena, names.Intern("code_block"))
				code.SetAttr(names.Intern("lang"), core.StringItem(core.NewStringFromString(in.Arena, codeLang)))
				code.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.Join(codeLines, "\n"))))
				doc.AddChild(core.ElementItem(code))
				codeLines = nil
				continue
			}
			codeLines = append(codeLines, line)
			continue
		}

		switch {
		case trimmed == "":
			flushParagraph()
		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			inCode = true
			codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
		case isHeading(trimmed):
			flushParagraph()
			level, text := parseHeading(trimmed)
			h := core.NewElement(in.Arena, names.Intern("heading"))
			h.SetAttr(names.Intern("level"), core.Int(int64(level)))
			h.AddChild(core.StringItem(core.NewStringFromString(in.Arena, text)))
			doc.AddChild(core.ElementItem(h))
		case isListItem(trimmed):
			flushParagraph()
			item := core.NewElement(in.Arena, names.Intern("list_item"))
			item.AddChild(core.StringItem(core.NewStringFromString(in.Arena, listItemText(trimmed))))
			doc.AddChild(core.ElementItem(item))
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	flushParagraph()

	in.Root = core.ElementItem(doc)
	return nil
}

func isHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	return i <= 6 && (i == len(line) || line[i] == ' ')
}

func parseHeading(line string) (int, string) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	return i, strings.TrimSpace(line[i:])
}

func isListItem(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}

func listItemText(line string) string {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return strings.TrimSpace(line[2:])
	}
	_, text, _ := strings.Cut(line, ". ")
	return strings.TrimSpace(text)
}
