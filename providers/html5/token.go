// Package html5 implements the HTML5 tokenizer (§4.4) and tree constructor
// (§4.5): an 80-state character-reference-aware state machine feeding a
// 23-insertion-mode tree builder with adoption-agency and foster-parenting
// support. Full WHATWG conformance — the template-content and
// foreign-content (SVG/MathML) branches in particular — is out of scope
// (§1 Non-goals); those modes are declared and switched into but handled
// with a reduced, in-body-like algorithm rather than their full spec text.
package html5

// TokenKind identifies which of the six token shapes a Token holds.
type TokenKind int

const (
	TokenDoctype TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenComment
	TokenCharacter
	TokenEOF
)

// Attribute is one name/value pair on a start or end tag, kept in source
// order (§4.4, START_TAG/END_TAG fields).
type Attribute struct {
	Name  string
	Value string
}

// Token is the tagged union every tokenizer state eventually produces.
// Only the fields relevant to Kind are meaningful.
type Token struct {
	Kind TokenKind

	// DOCTYPE
	Name             string
	PublicID         string
	HasPublicID      bool
	SystemID         string
	HasSystemID      bool
	ForceQuirks      bool

	// START_TAG / END_TAG (Name above doubles as the tag name)
	Attrs        []Attribute
	SelfClosing  bool

	// COMMENT
	Data string

	// CHARACTER
	Char rune

	Line   int
	Column int
}

func (t *Token) addAttr(name string) {
	t.Attrs = append(t.Attrs, Attribute{Name: name})
}

func (t *Token) appendAttrName(r rune) {
	i := len(t.Attrs) - 1
	t.Attrs[i].Name += string(r)
}

func (t *Token) appendAttrValue(r rune) {
	i := len(t.Attrs) - 1
	t.Attrs[i].Value += string(r)
}

// attr looks up an attribute by name, first match wins per WHATWG (later
// duplicates are parse errors and discarded by the tree constructor).
func (t *Token) attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
