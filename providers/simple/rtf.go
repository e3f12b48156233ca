package simple

import (
	"strings"

	"github.com/oxhq/inkwell/core"
)

// RTFProvider extracts plain text from an RTF document into a "document"
// ELEMENT with a single text child. Full RTF (fonts, colors, styles,
// pictures) is out of scope for a thin parser: known destination groups
// are skipped wholesale rather than interpreted, which is enough to
// recover readable text from the common case.
type RTFProvider struct{}

func NewRTF() *RTFProvider { return &RTFProvider{} }

func (*RTFProvider) Format() string       { return "rtf" }
func (*RTFProvider) Extensions() []string { return []string{".rtf"} }
func (*RTFProvider) MIMETypes() []string  { return []string{"application/rtf", "text/rtf"} }

func (p *RTFProvider) Parse(in *core.Input, source []byte) error {
	text := extractText(source)

	doc := core.NewElement(in.Arena, in.Names.Intern("document"))
	doc.AddChild(core.StringItem(core.NewStringFromString(in.Arena, text)))
	in.Root = core.ElementItem(doc)
	return nil
}

// destinationGroups names control words whose group holds document
// metadata rather than visible text.
var destinationGroups = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true,
	"info": true, "generator": true, "pict": true,
	"object": true, "nonshppict": true, "themedata": true,
	"colorschememapping": true, "latentstyles": true,
}

func extractText(source []byte) string {
	var sb strings.Builder
	// skipDepth marks the brace depth at which a skipped destination group
	// began; every nested brace beneath it is skipped too. 0 means "not
	// currently skipping".
	skipDepth := 0
	depth := 0
	i := 0
	n := len(source)

	for i < n {
		c := source[i]
		switch c {
		case '{':
			depth++
			i++
		case '}':
			if depth > 0 {
				depth--
			}
			if skipDepth > 0 && depth < skipDepth {
				skipDepth = 0
			}
			i++
		case '\\':
			i++
			if i >= n {
				break
			}
			if source[i] == '{' || source[i] == '}' || source[i] == '\\' {
				if skipDepth == 0 {
					sb.WriteByte(source[i])
				}
				i++
				continue
			}
			if source[i] == '*' {
				// \* marks the following destination as skippable even if
				// unrecognized by the reader.
				if skipDepth == 0 {
					skipDepth = depth
				}
				i++
				continue
			}

			j := i
			for j < n && isAlpha(source[j]) {
				j++
			}
			word := string(source[i:j])

			k := j
			for k < n && (source[k] == '-' || isDigit(source[k])) {
				k++
			}
			if k < n && source[k] == ' ' {
				k++
			}

			if j == i {
				i++ // control symbol; nothing to interpret
				continue
			}
			if skipDepth == 0 && destinationGroups[word] {
				skipDepth = depth
			}
			if word == "par" || word == "line" {
				if skipDepth == 0 {
					sb.WriteByte('\n')
				}
			} else if word == "tab" {
				if skipDepth == 0 {
					sb.WriteByte('\t')
				}
			}
			i = k
		default:
			if skipDepth == 0 {
				sb.WriteByte(c)
			}
			i++
		}
	}
	return strings.TrimSpace(sb.String())
}

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
