// Package mark implements the toolchain's native serialization format
// (§6.6): a superset of JSON adding symbols ('name), binary (b'...'),
// datetimes (t'...'), element syntax (<tag attr:val; children>), comments,
// and identifier-keyed maps. core.Item has no dedicated tag for binary or
// datetime values (§3 fixes the tag set at Null/Bool/Int/Float/String/
// Symbol/Array/Map/Element/Type/Error), so both are represented as a
// one-child ELEMENT whose tag name ("mark:binary"/"mark:datetime")
// Serialize recognizes and writes back out in their literal form — the
// same trick the HTML5/math providers use of building everything out of
// the one Element node type.
package mark

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/oxhq/inkwell/core"
)

const (
	binaryTag   = "mark:binary"
	datetimeTag = "mark:datetime"
)

// Provider parses mark-format source into a core.Item tree.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (*Provider) Format() string       { return "mark" }
func (*Provider) Extensions() []string { return []string{".mark"} }
func (*Provider) MIMETypes() []string  { return []string{"application/x-inkwell-mark"} }

func (p *Provider) Parse(in *core.Input, source []byte) error {
	parser := &parser{in: in, src: source}
	parser.skipSpace()
	if parser.atEOF() {
		in.Root = core.Null
		return nil
	}

	value, err := parser.parseValue()
	if err != nil {
		in.Fail(core.ErrUnexpectedToken, "mark: %v", err)
		return nil
	}
	in.Root = value
	return nil
}

type parser struct {
	in  *core.Input
	src []byte
	pos int
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++
	return b
}

func (p *parser) skipSpace() {
	for !p.atEOF() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		if c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
			for !p.atEOF() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		if c == '#' {
			for !p.atEOF() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

func (p *parser) parseValue() (core.Item, error) {
	p.skipSpace()
	if p.atEOF() {
		return core.Null, fmt.Errorf("unexpected end of input")
	}

	switch c := p.peek(); {
	case c == '"':
		return p.parseString()
	case c == '\'':
		return p.parseSymbol()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseMap()
	case c == '<':
		return p.parseElement()
	case c == 'b' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'':
		return p.parseBinary()
	case c == 't' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'':
		return p.parseDatetime()
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseKeyword()
	default:
		return core.Null, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *parser) parseKeyword() (core.Item, error) {
	start := p.pos
	for !p.atEOF() && isIdentPart(p.peek()) {
		p.pos++
	}
	switch word := string(p.src[start:p.pos]); word {
	case "null":
		return core.Null, nil
	case "true":
		return core.Bool(true), nil
	case "false":
		return core.Bool(false), nil
	default:
		return core.Null, fmt.Errorf("unknown keyword %q", word)
	}
}

func (p *parser) parseNumber() (core.Item, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.atEOF() && isDigit(p.peek()) {
		p.pos++
	}
	isFloat := false
	if !p.atEOF() && p.peek() == '.' {
		isFloat = true
		p.pos++
		for !p.atEOF() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if !p.atEOF() && (p.peek() == 'e' || p.peek() == 'E') {
		isFloat = true
		p.pos++
		if !p.atEOF() && (p.peek() == '+' || p.peek() == '-') {
			p.pos++
		}
		for !p.atEOF() && isDigit(p.peek()) {
			p.pos++
		}
	}

	text := string(p.src[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return core.Null, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return core.Float(p.in.Arena, f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return core.Null, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return core.Int(i), nil
}

func (p *parser) parseQuoted() (string, error) {
	if p.advance() != '"' {
		return "", fmt.Errorf("expected '\"'")
	}
	var sb strings.Builder
	for {
		if p.atEOF() {
			return "", fmt.Errorf("unterminated string")
		}
		c := p.advance()
		if c == '"' {
			return sb.String(), nil
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if p.atEOF() {
			return "", fmt.Errorf("unterminated escape")
		}
		esc := p.advance()
		switch esc {
		case '"', '\\', '/':
			sb.WriteByte(esc)
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if p.pos+4 > len(p.src) {
				return "", fmt.Errorf("truncated unicode escape")
			}
			hex := string(p.src[p.pos : p.pos+4])
			p.pos += 4
			n, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape %q: %w", hex, err)
			}
			sb.WriteRune(rune(n))
		default:
			return "", fmt.Errorf("invalid escape \\%c", esc)
		}
	}
}

func (p *parser) parseString() (core.Item, error) {
	text, err := p.parseQuoted()
	if err != nil {
		return core.Null, err
	}
	return core.StringItem(core.NewStringFromString(p.in.Arena, text)), nil
}

func (p *parser) parseSymbol() (core.Item, error) {
	p.advance() // '\''
	start := p.pos
	for !p.atEOF() && isIdentPart(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return core.Null, fmt.Errorf("empty symbol")
	}
	name := string(p.src[start:p.pos])
	return core.SymbolItem(core.NewStringFromString(p.in.Arena, name)), nil
}

func (p *parser) parseBinary() (core.Item, error) {
	p.pos += 2 // "b'"
	start := p.pos
	for !p.atEOF() && p.peek() != '\'' {
		p.pos++
	}
	if p.atEOF() {
		return core.Null, fmt.Errorf("unterminated binary literal")
	}
	encoded := string(p.src[start:p.pos])
	p.pos++ // closing quote

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return core.Null, fmt.Errorf("invalid base64 in binary literal: %w", err)
	}

	elem := core.NewElement(p.in.Arena, p.in.Names.Intern(binaryTag))
	elem.AddChild(core.StringItem(core.NewString(p.in.Arena, decoded)))
	return core.ElementItem(elem), nil
}

func (p *parser) parseDatetime() (core.Item, error) {
	p.pos += 2 // "t'"
	start := p.pos
	for !p.atEOF() && p.peek() != '\'' {
		p.pos++
	}
	if p.atEOF() {
		return core.Null, fmt.Errorf("unterminated datetime literal")
	}
	text := string(p.src[start:p.pos])
	p.pos++

	elem := core.NewElement(p.in.Arena, p.in.Names.Intern(datetimeTag))
	elem.AddChild(core.StringItem(core.NewStringFromString(p.in.Arena, text)))
	return core.ElementItem(elem), nil
}

func (p *parser) parseArray() (core.Item, error) {
	p.advance() // '['
	list := core.NewList(p.in.Arena)

	p.skipSpace()
	if !p.atEOF() && p.peek() == ']' {
		p.advance()
		return core.ArrayItem(list), nil
	}

	for {
		val, err := p.parseValue()
		if err != nil {
			return core.Null, err
		}
		list.Push(val)

		p.skipSpace()
		if p.atEOF() {
			return core.Null, fmt.Errorf("unterminated array")
		}
		switch p.peek() {
		case ',':
			p.advance()
			p.skipSpace()
		case ']':
			p.advance()
			return core.ArrayItem(list), nil
		default:
			return core.Null, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *parser) parseMapKey() (string, error) {
	p.skipSpace()
	if p.atEOF() {
		return "", fmt.Errorf("expected map key")
	}
	if p.peek() == '"' {
		return p.parseQuoted()
	}
	start := p.pos
	for !p.atEOF() && isIdentPart(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier or quoted string as map key at offset %d", p.pos)
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) parseMap() (core.Item, error) {
	p.advance() // '{'
	m := core.NewMap(p.in.Arena)

	p.skipSpace()
	if !p.atEOF() && p.peek() == '}' {
		p.advance()
		return core.MapItem(m), nil
	}

	for {
		key, err := p.parseMapKey()
		if err != nil {
			return core.Null, err
		}
		p.skipSpace()
		if p.atEOF() || p.advance() != ':' {
			return core.Null, fmt.Errorf("expected ':' after map key %q", key)
		}
		val, err := p.parseValue()
		if err != nil {
			return core.Null, err
		}
		m.Put(p.in.Names.Intern(key), val)

		p.skipSpace()
		if p.atEOF() {
			return core.Null, fmt.Errorf("unterminated map")
		}
		switch p.peek() {
		case ',':
			p.advance()
			p.skipSpace()
		case '}':
			p.advance()
			return core.MapItem(m), nil
		default:
			return core.Null, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

// parseElement handles `<tag attr:val attr2:val2; child1 child2>`. Both the
// attribute section and the child section are optional; children are only
// read after a `;`, so it is required whenever children are present, with or
// without attributes before it.
func (p *parser) parseElement() (core.Item, error) {
	p.advance() // '<'
	p.skipSpace()

	start := p.pos
	for !p.atEOF() && isIdentPart(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return core.Null, fmt.Errorf("expected tag name at offset %d", p.pos)
	}
	tag := string(p.src[start:p.pos])
	elem := core.NewElement(p.in.Arena, p.in.Names.Intern(tag))

	p.skipSpace()
	for !p.atEOF() && isIdentStart(p.peek()) {
		nameStart := p.pos
		for !p.atEOF() && isIdentPart(p.peek()) {
			p.pos++
		}
		attrName := string(p.src[nameStart:p.pos])
		if p.atEOF() || p.advance() != ':' {
			return core.Null, fmt.Errorf("expected ':' after attribute %q", attrName)
		}
		val, err := p.parseValue()
		if err != nil {
			return core.Null, err
		}
		elem.SetAttr(p.in.Names.Intern(attrName), val)
		p.skipSpace()
	}

	if !p.atEOF() && p.peek() == ';' {
		p.advance()
		p.skipSpace()
		for !p.atEOF() && p.peek() != '>' {
			child, err := p.parseValue()
			if err != nil {
				return core.Null, err
			}
			elem.AddChild(child)
			p.skipSpace()
		}
	}

	if p.atEOF() || p.advance() != '>' {
		return core.Null, fmt.Errorf("expected '>' to close element %q", tag)
	}
	return core.ElementItem(elem), nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) || c == '-' }

// Serialize renders an Item back to mark-format text. Parse∘Serialize is the
// identity on every value except ERROR (§8.2). TYPE items have no mark
// syntax either; they are written as null.
func Serialize(item core.Item) string {
	var sb strings.Builder
	writeValue(&sb, item)
	return sb.String()
}

func writeValue(sb *strings.Builder, item core.Item) {
	switch item.Tag {
	case core.TagNull:
		sb.WriteString("null")
	case core.TagBool:
		if item.Bool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case core.TagInt:
		sb.WriteString(strconv.FormatInt(item.Int(), 10))
	case core.TagFloat:
		text := strconv.FormatFloat(item.Float(), 'g', -1, 64)
		if !strings.ContainsAny(text, ".eIN") {
			// an integral float such as 2 would otherwise parse back as INT
			text += ".0"
		}
		sb.WriteString(text)
	case core.TagString:
		writeQuoted(sb, item.String_().Text())
	case core.TagSymbol:
		sb.WriteByte('\'')
		sb.WriteString(item.String_().Text())
	case core.TagArray:
		writeArray(sb, item.Array())
	case core.TagMap:
		writeMap(sb, item.Map())
	case core.TagElement:
		writeElement(sb, item.Element())
	default:
		sb.WriteString("null")
	}
}

func writeArray(sb *strings.Builder, list *core.List) {
	sb.WriteByte('[')
	for i := 0; i < list.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, list.Get(i))
	}
	sb.WriteByte(']')
}

func writeMap(sb *strings.Builder, m *core.Map) {
	sb.WriteByte('{')
	for i, name := range m.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeMapKey(sb, name.String())
		sb.WriteString(": ")
		v, _ := m.GetByIndex(i)
		writeValue(sb, v)
	}
	sb.WriteByte('}')
}

func writeMapKey(sb *strings.Builder, key string) {
	if isBareIdentifier(key) {
		sb.WriteString(key)
		return
	}
	writeQuoted(sb, key)
}

func isBareIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func writeElement(sb *strings.Builder, elem *core.Element) {
	tag := elem.Tag.String()

	if tag == binaryTag && elem.ContentLength() == 1 {
		raw := elem.Child(0).String_().Bytes
		sb.WriteString("b'")
		sb.WriteString(base64.StdEncoding.EncodeToString(raw))
		sb.WriteByte('\'')
		return
	}
	if tag == datetimeTag && elem.ContentLength() == 1 {
		sb.WriteString("t'")
		sb.WriteString(elem.Child(0).String_().Text())
		sb.WriteByte('\'')
		return
	}

	sb.WriteByte('<')
	sb.WriteString(tag)

	names := elem.Attrs().Names()
	for _, name := range names {
		sb.WriteByte(' ')
		sb.WriteString(name.String())
		sb.WriteByte(':')
		v, _ := elem.Attr(name)
		writeValue(sb, v)
	}

	if elem.ContentLength() > 0 {
		sb.WriteString("; ")
		for i := 0; i < elem.ContentLength(); i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeValue(sb, elem.Child(i))
		}
	}
	sb.WriteByte('>')
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
