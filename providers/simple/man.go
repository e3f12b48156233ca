package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// ManProvider parses the troff/man macro set's document-structuring macros
// (.TH, .SH, .SS, .PP/.P/.LP, .TP) into a "document" ELEMENT: ".TH" becomes
// attributes on the root, ".SH"/".SS" become "section"/"subsection"
// elements, and everything else accumulates into "paragraph" children of
// the current section. Font/spacing macros (.B, .I, .RS, ...) are left
// in place as plain text, matching a thin parser's scope.
type ManProvider struct{}

func NewMan() *ManProvider { return &ManProvider{} }

func (*ManProvider) Format() string       { return "man" }
func (*ManProvider) Extensions() []string { return []string{".man", ".1", ".2", ".3", ".5", ".7", ".8"} }
func (*ManProvider) MIMETypes() []string  { return []string{"text/troff"} }

func (p *ManProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	doc := core.NewElement(in.Arena, names.Intern("document"))

	var current *core.Element // current section, nil means attach to doc directly
	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		para := core.NewElement(in.Arena, names.Intern("paragraph"))
		para.AddChild(core.StringItem(core.NewStringFromString(in.Arena, strings.Join(paragraph, " "))))
		target := doc
		if current != nil {
			target = current
		}
		target.AddChild(core.ElementItem(para))
		paragraph = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, ".") {
			if strings.TrimSpace(line) == "" {
				flush()
			} else {
				paragraph = append(paragraph, strings.TrimSpace(line))
			}
			continue
		}

		macro, rest, _ := strings.Cut(line[1:], " ")
		args := unquoteArgs(strings.TrimSpace(rest))

		switch strings.ToUpper(macro) {
		case "TH":
			if len(args) > 0 {
				doc.SetAttr(names.Intern("title"), core.StringItem(core.NewStringFromString(in.Arena, args[0])))
			}
			if len(args) > 1 {
				doc.SetAttr(names.Intern("section"), core.StringItem(core.NewStringFromString(in.Arena, args[1])))
			}
		case "SH":
			flush()
			current = core.NewElement(in.Arena, names.Intern("section"))
			current.SetAttr(names.Intern("title"), core.StringItem(core.NewStringFromString(in.Arena, strings.Join(args, " "))))
			doc.AddChild(core.ElementItem(current))
		case "SS":
			flush()
			sub := core.NewElement(in.Arena, names.Intern("subsection"))
			sub.SetAttr(names.Intern("title"), core.StringItem(core.NewStringFromString(in.Arena, strings.Join(args, " "))))
			target := doc
			if current != nil {
				target = current
			}
			target.AddChild(core.ElementItem(sub))
		case "PP", "P", "LP", "TP":
			flush()
		default:
			paragraph = append(paragraph, strings.TrimSpace(line))
		}
	}
	flush()

	in.Root = core.ElementItem(doc)
	return nil
}

// unquoteArgs splits troff macro arguments on whitespace, honoring double
// quotes around arguments containing spaces.
func unquoteArgs(s string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}
