package simple

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// VCFProvider parses one or more vCard (RFC 6350) records into an ARRAY of
// "vcard" ELEMENTs, one attribute per property line. Grouped/parameterized
// property names (e.g. "TEL;TYPE=CELL") keep their parameters as part of
// the attribute name, since the validator's element-shape model has no
// separate concept of property parameters.
type VCFProvider struct{}

func NewVCF() *VCFProvider { return &VCFProvider{} }

func (*VCFProvider) Format() string       { return "vcf" }
func (*VCFProvider) Extensions() []string { return []string{".vcf"} }
func (*VCFProvider) MIMETypes() []string  { return []string{"text/vcard"} }

func (p *VCFProvider) Parse(in *core.Input, source []byte) error {
	names := in.Names
	cards := core.NewList(in.Arena)

	var current *core.Element
	scanner := bufio.NewScanner(bytes.NewReader(source))

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.EqualFold(trimmed, "BEGIN:VCARD"):
			current = core.NewElement(in.Arena, names.Intern("vcard"))
		case strings.EqualFold(trimmed, "END:VCARD"):
			if current != nil {
				cards.Push(core.ElementItem(current))
				current = nil
			}
		case current != nil:
			name, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				continue
			}
			attrName := names.Intern(strings.ToUpper(strings.TrimSpace(name)))
			current.SetAttr(attrName, core.StringItem(core.NewStringFromString(in.Arena, strings.TrimSpace(value))))
		}
	}

	in.Root = core.ArrayItem(cards)
	return nil
}
