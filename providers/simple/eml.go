// Package simple collects the thin, line-oriented parsers for every
// "simple parser" / historically out-of-scope format named in §6.2: EML,
// VCF, RTF, CSS, Markdown, MediaWiki, Textile, and man pages. None of the
// example repos carry a dedicated library for any of these, so each
// provider is a small hand-written scanner building a core.Element tree
// directly, in the same spirit as the HTML5 and math parsers' "parse into
// our own value model" discipline.
package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// EMLProvider parses an RFC 5322 email message's headers and body into a
// "message" ELEMENT: one attribute per header (last occurrence wins for
// repeated header names is out of scope — all but the first are ignored to
// keep the model simple), one "body" child holding the remaining text.
type EMLProvider struct{}

func NewEML() *EMLProvider { return &EMLProvider{} }

func (*EMLProvider) Format() string       { return "eml" }
func (*EMLProvider) Extensions() []string { return []string{".eml"} }
func (*EMLProvider) MIMETypes() []string  { return []string{"message/rfc822"} }

func (p *EMLProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	msg := core.NewElement(in.Arena, names.Intern("message"))

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var bodyLines []string
	inBody := false
	var lastHeaderName *core.Name

	for scanner.Scan() {
		line := scanner.Text()

		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}

		if line == "" {
			inBody = true
			continue
		}

		if (line[0] == ' ' || line[0] == '\t') && lastHeaderName != nil {
			// Folded header continuation (RFC 5322 §2.2.3).
			if existing, ok := msg.Attr(lastHeaderName); ok {
				joined := existing.String_().Text() + " " + strings.TrimSpace(line)
				msg.SetAttr(lastHeaderName, core.StringItem(core.NewStringFromString(in.Arena, joined)))
			}
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		headerName := names.Intern(strings.ToLower(name))
		if _, exists := msg.Attr(headerName); !exists {
			msg.SetAttr(headerName, core.StringItem(core.NewStringFromString(in.Arena, value)))
		}
		lastHeaderName = headerName
	}

	body := core.NewElement(in.Arena, names.Intern("body"))
	bodyText := strings.Join(bodyLines, "\n")
	body.AddChild(core.StringItem(core.NewStringFromString(in.Arena, bodyText)))
	msg.AddChild(core.ElementItem(body))

	in.Root = core.ElementItem(msg)
	return nil
}
