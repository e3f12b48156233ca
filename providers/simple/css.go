package simple

import (
	"strings"

	"github.com/oxhq/inkwell/core"
)

// CSSProvider parses CSS source into a "stylesheet" ELEMENT whose children
// are "rule" ELEMENTs, each carrying a "selector" attribute and one
// "declaration" child per property (attributes "property"/"value"). At-rules
// (@media, @import, ...) and comments are skipped, matching a thin parser's
// scope.
type CSSProvider struct{}

func NewCSS() *CSSProvider { return &CSSProvider{} }

func (*CSSProvider) Format() string       { return "css" }
func (*CSSProvider) Extensions() []string { return []string{".css"} }
func (*CSSProvider) MIMETypes() []string  { return []string{"text/css"} }

func (p *CSSProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	stylesheet := core.NewElement(in.Arena, names.Intern("stylesheet"))

	text := stripCSSComments(string(source))
	for _, block := range splitRuleBlocks(text) {
		selector, body, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		selector = strings.TrimSpace(selector)
		if selector == "" || strings.HasPrefix(selector, "@") {
			continue
		}
		body = strings.TrimSuffix(strings.TrimSpace(body), "}")

		rule := core.NewElement(in.Arena, names.Intern("rule"))
		rule.SetAttr(names.Intern("selector"), core.StringItem(core.NewStringFromString(in.Arena, selector)))

		for _, decl := range strings.Split(body, ";") {
			prop, value, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			prop = strings.TrimSpace(prop)
			value = strings.TrimSpace(value)
			if prop == "" {
				continue
			}
			d := core.NewElement(in.Arena, names.Intern("declaration"))
			d.SetAttr(names.Intern("property"), core.StringItem(core.NewStringFromString(in.Arena, prop)))
			d.SetAttr(names.Intern("value"), core.StringItem(core.NewStringFromString(in.Arena, value)))
			rule.AddChild(core.ElementItem(d))
		}
		stylesheet.AddChild(core.ElementItem(rule))
	}

	in.Root = core.ElementItem(stylesheet)
	return nil
}

func stripCSSComments(s string) string {
	var sb strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start == -1 {
			sb.WriteString(s)
			break
		}
		sb.WriteString(s[:start])
		end := strings.Index(s[start:], "*/")
		if end == -1 {
			break
		}
		s = s[start+end+2:]
	}
	return sb.String()
}

// splitRuleBlocks splits CSS text into "selector { declarations }" blocks
// by matching each '{' with its '}'.
func splitRuleBlocks(s string) []string {
	var blocks []string
	for {
		open := strings.Index(s, "{")
		if open == -1 {
			break
		}
		close := strings.Index(s[open:], "}")
		if close == -1 {
			break
		}
		close += open
		blocks = append(blocks, s[:close+1])
		s = s[close+1:]
	}
	return blocks
}
