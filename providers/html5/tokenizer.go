package html5

import (
	"strconv"
	"strings"

	"github.com/oxhq/inkwell/core"
)

// Tokenizer runs the WHATWG character-level state machine (§4.4) over a
// rune slice, emitting tokens into an internal queue that Next drains one
// at a time — the same pull-style shape net/html's tokenizer uses, since
// the underlying algorithm is naturally written as "run until you have
// something to emit" rather than as a single linear pass.
type Tokenizer struct {
	in  *core.Input
	src []rune
	pos int

	line, col int

	st         state
	returnState state

	curTag     *Token
	curComment []rune
	curDoctype *Token

	tempBuf      []rune
	lastStartTag string

	charRefCode  int64
	charRefHex   bool

	pending []Token
	doneEOF bool
}

// NewTokenizer builds a tokenizer over source, bound to in for error
// reporting (§4.4.4, §7.2). Position tracking starts at line 1 column 1;
// tabs count as one column like any other character (§4.4.4).
func NewTokenizer(in *core.Input, source []byte) *Tokenizer {
	return &Tokenizer{
		in:   in,
		src:  []rune(string(source)),
		st:   stateData,
		line: 1,
		col:  1,
	}
}

// SwitchTo implements the tree constructor's "set_state" contract (§4.4):
// called right after opening an element whose content model demands a
// non-Data tokenizer state.
func (t *Tokenizer) SwitchTo(elementName string) {
	switch elementName {
	case "textarea", "title":
		t.st = stateRCDATA
	case "style", "xmp", "iframe", "noembed", "noframes":
		t.st = stateRAWTEXT
	case "script":
		t.st = stateScriptData
	case "plaintext":
		t.st = statePLAINTEXT
	}
}

// IsAppropriateEndTag reports whether name matches the most recently
// emitted start tag's name (§4.4: "is_appropriate_end_tag"), the check the
// RCDATA/RAWTEXT/script-data end-tag-name states use to decide whether a
// candidate end tag actually closes the element or is just RCDATA content.
func (t *Tokenizer) IsAppropriateEndTag(name string) bool {
	return name != "" && name == t.lastStartTag
}

// Next returns the next token, or a TokenEOF token forever once the input
// is exhausted (§4.4 next_token contract).
func (t *Tokenizer) Next() Token {
	for len(t.pending) == 0 {
		if !t.step() {
			if len(t.pending) == 0 {
				return Token{Kind: TokenEOF}
			}
			break
		}
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok
}

func (t *Tokenizer) emit(tok Token) {
	tok.Line, tok.Column = t.line, t.col
	if tok.Kind == TokenStartTag {
		t.lastStartTag = tok.Name
	}
	t.pending = append(t.pending, tok)
}

func (t *Tokenizer) emitChar(r rune) { t.emit(Token{Kind: TokenCharacter, Char: r}) }

func (t *Tokenizer) emitCharsFromRunes(rs []rune) {
	for _, r := range rs {
		t.emitChar(r)
	}
}

func (t *Tokenizer) errorf(code core.ErrorCode, format string, args ...any) {
	t.in.AddError(code, core.Position{Line: t.line, Column: t.col}, format, args...)
}

func (t *Tokenizer) nextRune() (rune, bool) {
	if t.pos >= len(t.src) {
		return 0, false
	}
	r := t.src[t.pos]
	t.pos++
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r, true
}

func (t *Tokenizer) peekRune() (rune, bool) {
	return t.peekAt(0)
}

func (t *Tokenizer) peekAt(offset int) (rune, bool) {
	i := t.pos + offset
	if i < 0 || i >= len(t.src) {
		return 0, false
	}
	return t.src[i], true
}

// matchLiteralCI consumes s (case-insensitive, ASCII only) if it's next in
// the input, advancing pos on success and leaving it untouched on failure.
func (t *Tokenizer) matchLiteralCI(s string) bool {
	for i, want := range s {
		r, ok := t.peekAt(i)
		if !ok || lowerASCII(r) != lowerASCII(want) {
			return false
		}
	}
	for range s {
		t.nextRune()
	}
	return true
}

func (t *Tokenizer) matchLiteral(s string) bool {
	for i, want := range s {
		r, ok := t.peekAt(i)
		if !ok || r != want {
			return false
		}
	}
	for range s {
		t.nextRune()
	}
	return true
}

func lowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func isAsciiAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAsciiDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAsciiHexDigit(r rune) bool {
	return isAsciiDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAsciiAlphanumeric(r rune) bool { return isAsciiAlpha(r) || isAsciiDigit(r) }

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}

// step runs one state transition, possibly consuming several runes and
// possibly appending to t.pending. It returns false once the tokenizer has
// permanently reached EOF and emitted the terminal EOF token.
func (t *Tokenizer) step() bool {
	if t.doneEOF {
		return false
	}

	switch t.st {
	case stateData:
		return t.stepData()
	case stateRCDATA:
		return t.stepRCDATA()
	case stateRAWTEXT:
		return t.stepRAWTEXT()
	case stateScriptData:
		return t.stepScriptData()
	case statePLAINTEXT:
		return t.stepPlaintext()
	case stateTagOpen:
		return t.stepTagOpen()
	case stateEndTagOpen:
		return t.stepEndTagOpen()
	case stateTagName:
		return t.stepTagName(false)
	case stateRCDATALessThanSign:
		return t.stepTextLessThanSign(stateRCDATA, stateRCDATAEndTagOpen)
	case stateRCDATAEndTagOpen:
		return t.stepTextEndTagOpen(stateRCDATA, stateRCDATAEndTagName)
	case stateRCDATAEndTagName:
		return t.stepTextEndTagName(stateRCDATA)
	case stateRAWTEXTLessThanSign:
		return t.stepTextLessThanSign(stateRAWTEXT, stateRAWTEXTEndTagOpen)
	case stateRAWTEXTEndTagOpen:
		return t.stepTextEndTagOpen(stateRAWTEXT, stateRAWTEXTEndTagName)
	case stateRAWTEXTEndTagName:
		return t.stepTextEndTagName(stateRAWTEXT)
	case stateScriptDataLessThanSign:
		return t.stepScriptDataLessThanSign()
	case stateScriptDataEndTagOpen:
		return t.stepTextEndTagOpen(stateScriptData, stateScriptDataEndTagName)
	case stateScriptDataEndTagName:
		return t.stepTextEndTagName(stateScriptData)
	case stateScriptDataEscapeStart, stateScriptDataEscapeStartDash,
		stateScriptDataEscaped, stateScriptDataEscapedDash, stateScriptDataEscapedDashDash,
		stateScriptDataEscapedLessThanSign, stateScriptDataEscapedEndTagOpen, stateScriptDataEscapedEndTagName,
		stateScriptDataDoubleEscapeStart, stateScriptDataDoubleEscaped, stateScriptDataDoubleEscapedDash,
		stateScriptDataDoubleEscapedDashDash, stateScriptDataDoubleEscapedLessThanSign, stateScriptDataDoubleEscapeEnd:
		return t.stepScriptDataEscaped()
	case stateBeforeAttributeName:
		return t.stepBeforeAttributeName()
	case stateAttributeName:
		return t.stepAttributeName()
	case stateAfterAttributeName:
		return t.stepAfterAttributeName()
	case stateBeforeAttributeValue:
		return t.stepBeforeAttributeValue()
	case stateAttributeValueDoubleQuoted:
		return t.stepAttributeValueQuoted('"')
	case stateAttributeValueSingleQuoted:
		return t.stepAttributeValueQuoted('\'')
	case stateAttributeValueUnquoted:
		return t.stepAttributeValueUnquoted()
	case stateAfterAttributeValueQuoted:
		return t.stepAfterAttributeValueQuoted()
	case stateSelfClosingStartTag:
		return t.stepSelfClosingStartTag()
	case stateBogusComment:
		return t.stepBogusComment()
	case stateMarkupDeclarationOpen:
		return t.stepMarkupDeclarationOpen()
	case stateCommentStart:
		return t.stepCommentStart()
	case stateCommentStartDash:
		return t.stepCommentStartDash()
	case stateComment:
		return t.stepComment()
	case stateCommentLessThanSign:
		return t.stepCommentLessThanSign()
	case stateCommentLessThanSignBang:
		return t.stepCommentLessThanSignBang()
	case stateCommentLessThanSignBangDash:
		return t.stepCommentLessThanSignBangDash()
	case stateCommentLessThanSignBangDashDash:
		return t.stepCommentLessThanSignBangDashDash()
	case stateCommentEndDash:
		return t.stepCommentEndDash()
	case stateCommentEnd:
		return t.stepCommentEnd()
	case stateCommentEndBang:
		return t.stepCommentEndBang()
	case stateDOCTYPE:
		return t.stepDoctype()
	case stateBeforeDOCTYPEName:
		return t.stepBeforeDoctypeName()
	case stateDOCTYPEName:
		return t.stepDoctypeName()
	case stateAfterDOCTYPEName:
		return t.stepAfterDoctypeName()
	case stateAfterDOCTYPEPublicKeyword:
		return t.stepAfterDoctypePublicKeyword()
	case stateBeforeDOCTYPEPublicIdentifier:
		return t.stepBeforeDoctypePublicIdentifier()
	case stateDOCTYPEPublicIdentifierDoubleQuoted:
		return t.stepDoctypePublicIdentifier('"')
	case stateDOCTYPEPublicIdentifierSingleQuoted:
		return t.stepDoctypePublicIdentifier('\'')
	case stateAfterDOCTYPEPublicIdentifier:
		return t.stepAfterDoctypePublicIdentifier()
	case stateBetweenDOCTYPEPublicAndSystemIdentifiers:
		return t.stepBetweenDoctypePublicAndSystemIdentifiers()
	case stateAfterDOCTYPESystemKeyword:
		return t.stepAfterDoctypeSystemKeyword()
	case stateBeforeDOCTYPESystemIdentifier:
		return t.stepBeforeDoctypeSystemIdentifier()
	case stateDOCTYPESystemIdentifierDoubleQuoted:
		return t.stepDoctypeSystemIdentifier('"')
	case stateDOCTYPESystemIdentifierSingleQuoted:
		return t.stepDoctypeSystemIdentifier('\'')
	case stateAfterDOCTYPESystemIdentifier:
		return t.stepAfterDoctypeSystemIdentifier()
	case stateBogusDOCTYPE:
		return t.stepBogusDoctype()
	case stateCDATASection:
		return t.stepCDATASection()
	case stateCDATASectionBracket:
		return t.stepCDATASectionBracket()
	case stateCDATASectionEnd:
		return t.stepCDATASectionEnd()
	case stateCharacterReference:
		return t.stepCharacterReference()
	case stateNamedCharacterReference:
		return t.stepNamedCharacterReference()
	case stateAmbiguousAmpersand:
		return t.stepAmbiguousAmpersand()
	case stateNumericCharacterReference:
		return t.stepNumericCharacterReference()
	case stateHexadecimalCharacterReferenceStart:
		return t.stepHexadecimalCharacterReferenceStart()
	case stateDecimalCharacterReferenceStart:
		return t.stepDecimalCharacterReferenceStart()
	case stateHexadecimalCharacterReference:
		return t.stepHexadecimalCharacterReference()
	case stateDecimalCharacterReference:
		return t.stepDecimalCharacterReference()
	case stateNumericCharacterReferenceEnd:
		return t.stepNumericCharacterReferenceEnd()
	}
	return false
}

func (t *Tokenizer) emitEOF() bool {
	t.doneEOF = true
	t.emit(Token{Kind: TokenEOF})
	return true
}

func (t *Tokenizer) stepData() bool {
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	switch r {
	case '&':
		t.returnState = stateData
		t.st = stateCharacterReference
	case '<':
		t.st = stateTagOpen
	case 0:
		t.errorf(core.ErrUnexpectedToken, "unexpected null character")
		t.emitChar(replacementChar)
	default:
		t.emitChar(r)
	}
	return true
}

func (t *Tokenizer) stepPlaintext() bool {
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	if r == 0 {
		t.emitChar(replacementChar)
		return true
	}
	t.emitChar(r)
	return true
}

func (t *Tokenizer) stepRCDATA() bool {
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	switch r {
	case '&':
		t.returnState = stateRCDATA
		t.st = stateCharacterReference
	case '<':
		t.st = stateRCDATALessThanSign
	case 0:
		t.emitChar(replacementChar)
	default:
		t.emitChar(r)
	}
	return true
}

func (t *Tokenizer) stepRAWTEXT() bool {
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	switch r {
	case '<':
		t.st = stateRAWTEXTLessThanSign
	case 0:
		t.emitChar(replacementChar)
	default:
		t.emitChar(r)
	}
	return true
}

func (t *Tokenizer) stepScriptData() bool {
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	switch r {
	case '<':
		t.st = stateScriptDataLessThanSign
	case 0:
		t.emitChar(replacementChar)
	default:
		t.emitChar(r)
	}
	return true
}

// stepScriptDataEscaped collapses the script-data escape/double-escape
// family into a single pass-through state: the escaped text is emitted
// verbatim as CHARACTER tokens until the enclosing "</script>" is seen,
// without distinguishing nested <script> re-entry inside an escaped block.
// Full fidelity here belongs to the script-execution branch excluded by
// this module's Non-goals.
func (t *Tokenizer) stepScriptDataEscaped() bool {
	if t.matchLiteralCI("</script") {
		t.st = stateScriptDataEndTagName
		t.tempBuf = []rune("script")
		t.curTag = &Token{Kind: TokenEndTag, Name: "script"}
		return true
	}
	r, ok := t.nextRune()
	if !ok {
		return t.emitEOF()
	}
	t.emitChar(r)
	t.st = stateScriptData
	return true
}

func (t *Tokenizer) stepTextLessThanSign(textState, endTagOpenState state) bool {
	r, ok := t.peekRune()
	if ok && r == '/' {
		t.nextRune()
		t.tempBuf = nil
		t.st = endTagOpenState
		return true
	}
	t.emitChar('<')
	t.st = textState
	return true
}

func (t *Tokenizer) stepScriptDataLessThanSign() bool {
	r, ok := t.peekRune()
	if ok && r == '/' {
		t.nextRune()
		t.tempBuf = nil
		t.st = stateScriptDataEndTagOpen
		return true
	}
	if ok && r == '!' {
		t.nextRune()
		t.emitChar('<')
		t.emitChar('!')
		t.st = stateScriptDataEscapeStart
		return true
	}
	t.emitChar('<')
	t.st = stateScriptData
	return true
}

func (t *Tokenizer) stepTextEndTagOpen(textState, endTagNameState state) bool {
	r, ok := t.peekRune()
	if ok && isAsciiAlpha(r) {
		t.curTag = &Token{Kind: TokenEndTag}
		t.st = endTagNameState
		return true
	}
	t.emitChar('<')
	t.emitChar('/')
	t.st = textState
	return true
}

func (t *Tokenizer) stepTextEndTagName(textState state) bool {
	r, ok := t.peekRune()
	if ok && isAsciiAlpha(r) {
		t.nextRune()
		lr := lowerASCII(r)
		t.curTag.Name += string(lr)
		t.tempBuf = append(t.tempBuf, r)
		return true
	}
	if t.IsAppropriateEndTag(t.curTag.Name) {
		switch {
		case ok && isWhitespace(r):
			t.nextRune()
			t.st = stateBeforeAttributeName
			return true
		case ok && r == '/':
			t.nextRune()
			t.st = stateSelfClosingStartTag
			return true
		case ok && r == '>':
			t.nextRune()
			t.emit(*t.curTag)
			t.curTag = nil
			t.st = stateData
			return true
		}
	}
	t.emitChar('<')
	t.emitChar('/')
	t.emitCharsFromRunes(t.tempBuf)
	t.curTag = nil
	t.st = textState
	return true
}

func (t *Tokenizer) stepTagOpen() bool {
	r, ok := t.peekRune()
	if !ok {
		t.emitChar('<')
		return t.emitEOF()
	}
	switch {
	case r == '!':
		t.nextRune()
		t.st = stateMarkupDeclarationOpen
	case r == '/':
		t.nextRune()
		t.st = stateEndTagOpen
	case isAsciiAlpha(r):
		t.curTag = &Token{Kind: TokenStartTag}
		t.st = stateTagName
	case r == '?':
		t.errorf(core.ErrUnexpectedToken, "unexpected question mark instead of tag name")
		t.curComment = nil
		t.st = stateBogusComment
	default:
		t.errorf(core.ErrUnexpectedToken, "invalid first character of tag name")
		t.emitChar('<')
		t.st = stateData
	}
	return true
}

func (t *Tokenizer) stepEndTagOpen() bool {
	r, ok := t.peekRune()
	if !ok {
		t.emitChar('<')
		t.emitChar('/')
		return t.emitEOF()
	}
	switch {
	case isAsciiAlpha(r):
		t.curTag = &Token{Kind: TokenEndTag}
		t.st = stateTagName
	case r == '>':
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing end tag name")
		t.st = stateData
	default:
		t.errorf(core.ErrUnexpectedToken, "invalid first character of tag name")
		t.curComment = nil
		t.st = stateBogusComment
	}
	return true
}

func (t *Tokenizer) stepTagName(_ bool) bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	switch {
	case isWhitespace(r):
		t.st = stateBeforeAttributeName
	case r == '/':
		t.st = stateSelfClosingStartTag
	case r == '>':
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
	case r == 0:
		t.curTag.Name += string(replacementChar)
	case isAsciiAlpha(r):
		t.curTag.Name += string(lowerASCII(r))
	default:
		t.curTag.Name += string(r)
	}
	return true
}

func (t *Tokenizer) stepBeforeAttributeName() bool {
	r, ok := t.peekRune()
	if !ok {
		return t.stepAfterAttributeName()
	}
	switch {
	case isWhitespace(r):
		t.nextRune()
	case r == '/' || r == '>':
		t.st = stateAfterAttributeName
	case r == '=':
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "unexpected equals sign before attribute name")
		t.curTag.addAttr("=")
		t.st = stateAttributeName
	default:
		t.curTag.addAttr("")
		t.st = stateAttributeName
	}
	return true
}

func (t *Tokenizer) stepAttributeName() bool {
	r, ok := t.peekRune()
	if !ok {
		t.finishAttrName()
		t.st = stateAfterAttributeName
		return true
	}
	switch {
	case isWhitespace(r) || r == '/' || r == '>':
		t.finishAttrName()
		t.st = stateAfterAttributeName
	case r == '=':
		t.nextRune()
		t.finishAttrName()
		t.st = stateBeforeAttributeValue
	case r == 0:
		t.nextRune()
		t.curTag.appendAttrName(replacementChar)
	case isAsciiAlpha(r):
		t.nextRune()
		t.curTag.appendAttrName(lowerASCII(r))
	default:
		t.nextRune()
		t.curTag.appendAttrName(r)
	}
	return true
}

// finishAttrName drops the attribute being built if its name duplicates an
// already-finished attribute on this tag (§4.4: a parse error, the
// duplicate is discarded and the first occurrence wins).
func (t *Tokenizer) finishAttrName() {
	i := len(t.curTag.Attrs) - 1
	name := t.curTag.Attrs[i].Name
	for j := 0; j < i; j++ {
		if t.curTag.Attrs[j].Name == name {
			t.errorf(core.ErrUnexpectedToken, "duplicate attribute %q", name)
			t.curTag.Attrs = append(t.curTag.Attrs[:i], t.curTag.Attrs[i+1:]...)
			return
		}
	}
}

func (t *Tokenizer) stepAfterAttributeName() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	switch {
	case isWhitespace(r):
		t.nextRune()
	case r == '/':
		t.nextRune()
		t.st = stateSelfClosingStartTag
	case r == '=':
		t.nextRune()
		t.st = stateBeforeAttributeValue
	case r == '>':
		t.nextRune()
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
	default:
		t.curTag.addAttr("")
		t.st = stateAttributeName
	}
	return true
}

func (t *Tokenizer) stepBeforeAttributeValue() bool {
	r, ok := t.peekRune()
	if !ok {
		t.st = stateAttributeValueUnquoted
		return true
	}
	switch {
	case isWhitespace(r):
		t.nextRune()
	case r == '"':
		t.nextRune()
		t.st = stateAttributeValueDoubleQuoted
	case r == '\'':
		t.nextRune()
		t.st = stateAttributeValueSingleQuoted
	case r == '>':
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing attribute value")
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
	default:
		t.st = stateAttributeValueUnquoted
	}
	return true
}

func (t *Tokenizer) stepAttributeValueQuoted(quote rune) bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	switch {
	case r == quote:
		t.st = stateAfterAttributeValueQuoted
	case r == '&':
		t.returnState = t.st
		t.st = stateCharacterReference
	case r == 0:
		t.curTag.appendAttrValue(replacementChar)
	default:
		t.curTag.appendAttrValue(r)
	}
	return true
}

func (t *Tokenizer) stepAttributeValueUnquoted() bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	switch {
	case isWhitespace(r):
		t.st = stateBeforeAttributeName
	case r == '&':
		t.returnState = t.st
		t.st = stateCharacterReference
	case r == '>':
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
	case r == 0:
		t.curTag.appendAttrValue(replacementChar)
	default:
		t.curTag.appendAttrValue(r)
	}
	return true
}

func (t *Tokenizer) stepAfterAttributeValueQuoted() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	switch {
	case isWhitespace(r):
		t.nextRune()
		t.st = stateBeforeAttributeName
	case r == '/':
		t.nextRune()
		t.st = stateSelfClosingStartTag
	case r == '>':
		t.nextRune()
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
	default:
		t.errorf(core.ErrUnexpectedToken, "missing whitespace between attributes")
		t.st = stateBeforeAttributeName
	}
	return true
}

func (t *Tokenizer) stepSelfClosingStartTag() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in tag")
		return t.emitEOF()
	}
	if r == '>' {
		t.nextRune()
		t.curTag.SelfClosing = true
		t.emit(*t.curTag)
		t.curTag = nil
		t.st = stateData
		return true
	}
	t.errorf(core.ErrUnexpectedToken, "unexpected solidus in tag")
	t.st = stateBeforeAttributeName
	return true
}

func (t *Tokenizer) stepBogusComment() bool {
	r, ok := t.nextRune()
	if !ok {
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	switch r {
	case '>':
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		t.curComment = nil
		t.st = stateData
	case 0:
		t.curComment = append(t.curComment, replacementChar)
	default:
		t.curComment = append(t.curComment, r)
	}
	return true
}

func (t *Tokenizer) stepMarkupDeclarationOpen() bool {
	if t.matchLiteral("--") {
		t.curComment = nil
		t.st = stateCommentStart
		return true
	}
	if t.matchLiteralCI("DOCTYPE") {
		t.st = stateDOCTYPE
		return true
	}
	if t.matchLiteral("[CDATA[") {
		t.st = stateCDATASection
		return true
	}
	t.errorf(core.ErrUnexpectedToken, "incorrectly opened comment")
	t.curComment = nil
	t.st = stateBogusComment
	return true
}

func (t *Tokenizer) stepCommentStart() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.st = stateCommentStartDash
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "abrupt closing of empty comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		t.curComment = nil
		t.st = stateData
		return true
	}
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepCommentStartDash() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.st = stateCommentEnd
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "abrupt closing of empty comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		t.curComment = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	t.curComment = append(t.curComment, '-')
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepComment() bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	switch r {
	case '<':
		t.curComment = append(t.curComment, r)
		t.st = stateCommentLessThanSign
	case '-':
		t.st = stateCommentEndDash
	case 0:
		t.curComment = append(t.curComment, replacementChar)
	default:
		t.curComment = append(t.curComment, r)
	}
	return true
}

func (t *Tokenizer) stepCommentLessThanSign() bool {
	r, ok := t.peekRune()
	if ok && r == '!' {
		t.nextRune()
		t.curComment = append(t.curComment, r)
		t.st = stateCommentLessThanSignBang
		return true
	}
	if ok && r == '<' {
		t.nextRune()
		t.curComment = append(t.curComment, r)
		return true
	}
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepCommentLessThanSignBang() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.st = stateCommentLessThanSignBangDash
		return true
	}
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepCommentLessThanSignBangDash() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.st = stateCommentLessThanSignBangDashDash
		return true
	}
	t.st = stateCommentEndDash
	return true
}

func (t *Tokenizer) stepCommentLessThanSignBangDashDash() bool {
	t.st = stateCommentEnd
	return true
}

func (t *Tokenizer) stepCommentEndDash() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.st = stateCommentEnd
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	t.curComment = append(t.curComment, '-')
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepCommentEnd() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	switch r {
	case '>':
		t.nextRune()
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		t.curComment = nil
		t.st = stateData
	case '!':
		t.nextRune()
		t.st = stateCommentEndBang
	case '-':
		t.nextRune()
		t.curComment = append(t.curComment, '-')
	default:
		t.curComment = append(t.curComment, '-', '-')
		t.st = stateComment
	}
	return true
}

func (t *Tokenizer) stepCommentEndBang() bool {
	r, ok := t.peekRune()
	if ok && r == '-' {
		t.nextRune()
		t.curComment = append(t.curComment, '-', '-', '!')
		t.st = stateCommentEndDash
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "incorrectly closed comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		t.curComment = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in comment")
		t.emit(Token{Kind: TokenComment, Data: string(t.curComment)})
		return t.emitEOF()
	}
	t.curComment = append(t.curComment, '-', '-', '!')
	t.st = stateComment
	return true
}

func (t *Tokenizer) stepDoctype() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		t.st = stateBeforeDOCTYPEName
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.emit(Token{Kind: TokenDoctype, ForceQuirks: true})
		return t.emitEOF()
	}
	t.st = stateBeforeDOCTYPEName
	return true
}

func (t *Tokenizer) stepBeforeDoctypeName() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.emit(Token{Kind: TokenDoctype, ForceQuirks: true})
		return t.emitEOF()
	}
	if r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing doctype name")
		t.emit(Token{Kind: TokenDoctype, ForceQuirks: true})
		t.st = stateData
		return true
	}
	t.nextRune()
	t.curDoctype = &Token{Kind: TokenDoctype}
	if isAsciiAlpha(r) {
		t.curDoctype.Name = string(lowerASCII(r))
	} else if r == 0 {
		t.curDoctype.Name = string(replacementChar)
	} else {
		t.curDoctype.Name = string(r)
	}
	t.st = stateDOCTYPEName
	return true
}

func (t *Tokenizer) stepDoctypeName() bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	switch {
	case isWhitespace(r):
		t.st = stateAfterDOCTYPEName
	case r == '>':
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
	case r == 0:
		t.curDoctype.Name += string(replacementChar)
	case isAsciiAlpha(r):
		t.curDoctype.Name += string(lowerASCII(r))
	default:
		t.curDoctype.Name += string(r)
	}
	return true
}

func (t *Tokenizer) stepAfterDoctypeName() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	if isWhitespace(r) {
		t.nextRune()
		return true
	}
	if r == '>' {
		t.nextRune()
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if t.matchLiteralCI("PUBLIC") {
		t.st = stateAfterDOCTYPEPublicKeyword
		return true
	}
	if t.matchLiteralCI("SYSTEM") {
		t.st = stateAfterDOCTYPESystemKeyword
		return true
	}
	t.nextRune()
	t.errorf(core.ErrUnexpectedToken, "invalid character sequence after doctype name")
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepAfterDoctypePublicKeyword() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		t.st = stateBeforeDOCTYPEPublicIdentifier
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.errorf(core.ErrUnexpectedToken, "missing whitespace after doctype public keyword")
		t.curDoctype.HasPublicID = true
		t.nextRune()
		if r == '"' {
			t.st = stateDOCTYPEPublicIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPEPublicIdentifierSingleQuoted
		}
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing doctype public identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.errorf(core.ErrUnexpectedToken, "missing quote before doctype public identifier")
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepBeforeDoctypePublicIdentifier() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.nextRune()
		t.curDoctype.HasPublicID = true
		if r == '"' {
			t.st = stateDOCTYPEPublicIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPEPublicIdentifierSingleQuoted
		}
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing doctype public identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.errorf(core.ErrUnexpectedToken, "missing quote before doctype public identifier")
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepDoctypePublicIdentifier(quote rune) bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	switch {
	case r == quote:
		t.st = stateAfterDOCTYPEPublicIdentifier
	case r == 0:
		t.curDoctype.PublicID += string(replacementChar)
	case r == '>':
		t.errorf(core.ErrUnexpectedToken, "abrupt doctype public identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
	default:
		t.curDoctype.PublicID += string(r)
	}
	return true
}

func (t *Tokenizer) stepAfterDoctypePublicIdentifier() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		t.st = stateBetweenDOCTYPEPublicAndSystemIdentifiers
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing whitespace between doctype public and system identifiers")
		t.curDoctype.HasSystemID = true
		if r == '"' {
			t.st = stateDOCTYPESystemIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPESystemIdentifierSingleQuoted
		}
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepBetweenDoctypePublicAndSystemIdentifiers() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.nextRune()
		t.curDoctype.HasSystemID = true
		if r == '"' {
			t.st = stateDOCTYPESystemIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPESystemIdentifierSingleQuoted
		}
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepAfterDoctypeSystemKeyword() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		t.st = stateBeforeDOCTYPESystemIdentifier
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.nextRune()
		t.curDoctype.HasSystemID = true
		if r == '"' {
			t.st = stateDOCTYPESystemIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPESystemIdentifierSingleQuoted
		}
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing doctype system identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepBeforeDoctypeSystemIdentifier() bool {
	r, ok := t.peekRune()
	if ok && isWhitespace(r) {
		t.nextRune()
		return true
	}
	if ok && (r == '"' || r == '\'') {
		t.nextRune()
		t.curDoctype.HasSystemID = true
		if r == '"' {
			t.st = stateDOCTYPESystemIdentifierDoubleQuoted
		} else {
			t.st = stateDOCTYPESystemIdentifierSingleQuoted
		}
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.errorf(core.ErrUnexpectedToken, "missing doctype system identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	t.nextRune()
	t.curDoctype.ForceQuirks = true
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepDoctypeSystemIdentifier(quote rune) bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	switch {
	case r == quote:
		t.st = stateAfterDOCTYPESystemIdentifier
	case r == 0:
		t.curDoctype.SystemID += string(replacementChar)
	case r == '>':
		t.errorf(core.ErrUnexpectedToken, "abrupt doctype system identifier")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
	default:
		t.curDoctype.SystemID += string(r)
	}
	return true
}

func (t *Tokenizer) stepAfterDoctypeSystemIdentifier() bool {
	r, ok := t.peekRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in doctype")
		t.curDoctype.ForceQuirks = true
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	if isWhitespace(r) {
		t.nextRune()
		return true
	}
	if r == '>' {
		t.nextRune()
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
		return true
	}
	t.nextRune()
	t.errorf(core.ErrUnexpectedToken, "unexpected character after doctype system identifier")
	t.st = stateBogusDOCTYPE
	return true
}

func (t *Tokenizer) stepBogusDoctype() bool {
	r, ok := t.nextRune()
	if !ok {
		t.emit(*t.curDoctype)
		return t.emitEOF()
	}
	if r == '>' {
		t.emit(*t.curDoctype)
		t.curDoctype = nil
		t.st = stateData
	}
	return true
}

func (t *Tokenizer) stepCDATASection() bool {
	r, ok := t.nextRune()
	if !ok {
		t.errorf(core.ErrUnexpectedEOF, "eof in cdata")
		return t.emitEOF()
	}
	if r == ']' {
		t.st = stateCDATASectionBracket
		return true
	}
	t.emitChar(r)
	return true
}

func (t *Tokenizer) stepCDATASectionBracket() bool {
	r, ok := t.peekRune()
	if ok && r == ']' {
		t.nextRune()
		t.st = stateCDATASectionEnd
		return true
	}
	t.emitChar(']')
	t.st = stateCDATASection
	return true
}

func (t *Tokenizer) stepCDATASectionEnd() bool {
	r, ok := t.peekRune()
	if ok && r == ']' {
		t.nextRune()
		t.emitChar(']')
		return true
	}
	if ok && r == '>' {
		t.nextRune()
		t.st = stateData
		return true
	}
	t.emitChar(']')
	t.emitChar(']')
	t.st = stateCDATASection
	return true
}

func (t *Tokenizer) stepCharacterReference() bool {
	t.tempBuf = []rune{'&'}
	r, ok := t.peekRune()
	if ok && isAsciiAlphanumeric(r) {
		t.st = stateNamedCharacterReference
		return true
	}
	if ok && r == '#' {
		t.nextRune()
		t.tempBuf = append(t.tempBuf, '#')
		t.st = stateNumericCharacterReference
		return true
	}
	t.flushTempBuf()
	t.st = t.returnState
	return true
}

// flushTempBuf emits the accumulated '&...' text as-is: as attribute value
// text when returnState is an attribute-value state, as CHARACTER tokens
// otherwise (§4.4: the "flush code points consumed as a character
// reference" step).
func (t *Tokenizer) flushTempBuf() {
	if t.inAttributeValue() {
		for _, r := range t.tempBuf {
			t.curTag.appendAttrValue(r)
		}
		return
	}
	t.emitCharsFromRunes(t.tempBuf)
}

func (t *Tokenizer) inAttributeValue() bool {
	switch t.returnState {
	case stateAttributeValueDoubleQuoted, stateAttributeValueSingleQuoted, stateAttributeValueUnquoted:
		return true
	}
	return false
}

func (t *Tokenizer) stepNamedCharacterReference() bool {
	// Greedy-longest match against the curated entity table.
	best := ""
	bestVal := ""
	for cand, val := range namedCharRefs {
		if len(cand) <= len(best) {
			continue
		}
		if t.hasLiteralAt(t.pos, cand) {
			best = cand
			bestVal = val
		}
	}
	if best == "" {
		t.flushTempBuf()
		t.st = stateAmbiguousAmpersand
		return true
	}
	consumed := []rune(best)
	t.pos += len(consumed)
	for _, r := range consumed {
		if r == '\n' {
			t.line++
			t.col = 1
		} else {
			t.col++
		}
	}
	t.tempBuf = append(t.tempBuf, consumed...)

	if t.inAttributeValue() && !strings.HasSuffix(best, ";") {
		if n, ok := t.peekRune(); ok && (n == '=' || isAsciiAlphanumeric(n)) {
			t.flushTempBuf()
			t.st = t.returnState
			return true
		}
	}
	if !strings.HasSuffix(best, ";") {
		t.errorf(core.ErrInvalidCharacterRef, "missing semicolon after character reference")
	}
	if t.inAttributeValue() {
		for _, r := range bestVal {
			t.curTag.appendAttrValue(r)
		}
	} else {
		for _, r := range bestVal {
			t.emitChar(r)
		}
	}
	t.st = t.returnState
	return true
}

func (t *Tokenizer) hasLiteralAt(pos int, s string) bool {
	rs := []rune(s)
	if pos+len(rs) > len(t.src) {
		return false
	}
	for i, r := range rs {
		if t.src[pos+i] != r {
			return false
		}
	}
	return true
}

func (t *Tokenizer) stepAmbiguousAmpersand() bool {
	r, ok := t.peekRune()
	if ok && isAsciiAlphanumeric(r) {
		t.nextRune()
		if t.inAttributeValue() {
			t.curTag.appendAttrValue(r)
		} else {
			t.emitChar(r)
		}
		return true
	}
	if ok && r == ';' {
		t.errorf(core.ErrInvalidCharacterRef, "unknown named character reference")
	}
	t.st = t.returnState
	return true
}

func (t *Tokenizer) stepNumericCharacterReference() bool {
	t.charRefCode = 0
	t.charRefHex = false
	r, ok := t.peekRune()
	if ok && (r == 'x' || r == 'X') {
		t.nextRune()
		t.tempBuf = append(t.tempBuf, r)
		t.charRefHex = true
		t.st = stateHexadecimalCharacterReferenceStart
		return true
	}
	t.st = stateDecimalCharacterReferenceStart
	return true
}

func (t *Tokenizer) stepHexadecimalCharacterReferenceStart() bool {
	r, ok := t.peekRune()
	if ok && isAsciiHexDigit(r) {
		t.st = stateHexadecimalCharacterReference
		return true
	}
	t.errorf(core.ErrInvalidCharacterRef, "absence of digits in numeric character reference")
	t.flushTempBuf()
	t.st = t.returnState
	return true
}

func (t *Tokenizer) stepDecimalCharacterReferenceStart() bool {
	r, ok := t.peekRune()
	if ok && isAsciiDigit(r) {
		t.st = stateDecimalCharacterReference
		return true
	}
	t.errorf(core.ErrInvalidCharacterRef, "absence of digits in numeric character reference")
	t.flushTempBuf()
	t.st = t.returnState
	return true
}

func (t *Tokenizer) stepHexadecimalCharacterReference() bool {
	r, ok := t.peekRune()
	if ok && isAsciiHexDigit(r) {
		t.nextRune()
		v, _ := strconv.ParseInt(string(r), 16, 64)
		t.charRefCode = t.charRefCode*16 + v
		return true
	}
	if ok && r == ';' {
		t.nextRune()
		t.st = stateNumericCharacterReferenceEnd
		return true
	}
	t.errorf(core.ErrInvalidCharacterRef, "missing semicolon after character reference")
	t.st = stateNumericCharacterReferenceEnd
	return true
}

func (t *Tokenizer) stepDecimalCharacterReference() bool {
	r, ok := t.peekRune()
	if ok && isAsciiDigit(r) {
		t.nextRune()
		t.charRefCode = t.charRefCode*10 + int64(r-'0')
		return true
	}
	if ok && r == ';' {
		t.nextRune()
		t.st = stateNumericCharacterReferenceEnd
		return true
	}
	t.errorf(core.ErrInvalidCharacterRef, "missing semicolon after character reference")
	t.st = stateNumericCharacterReferenceEnd
	return true
}

func (t *Tokenizer) stepNumericCharacterReferenceEnd() bool {
	code := t.charRefCode
	var result rune

	switch {
	case code == 0:
		t.errorf(core.ErrInvalidCharacterRef, "null character reference")
		result = replacementChar
	case code > 0x10ffff:
		t.errorf(core.ErrInvalidCharacterRef, "character reference outside unicode range")
		result = replacementChar
	case isSurrogate(rune(code)):
		t.errorf(core.ErrInvalidCharacterRef, "surrogate character reference")
		result = replacementChar
	default:
		if replacement, ok := numericRefReplacements[rune(code)]; ok {
			t.errorf(core.ErrInvalidCharacterRef, "control character reference")
			result = replacement
		} else if (code <= 0x1f && code != '\t' && code != '\n' && code != '\f') || (code >= 0x7f && code <= 0x9f) {
			t.errorf(core.ErrInvalidCharacterRef, "control character reference")
			result = rune(code)
		} else if isNoncharacter(rune(code)) {
			t.errorf(core.ErrInvalidCharacterRef, "noncharacter character reference")
			result = rune(code)
		} else {
			result = rune(code)
		}
	}

	if t.inAttributeValue() {
		t.curTag.appendAttrValue(result)
	} else {
		t.emitChar(result)
	}
	t.st = t.returnState
	return true
}
