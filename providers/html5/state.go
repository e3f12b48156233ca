package html5

// state names the tokenizer's position in the WHATWG character-level state
// machine (§4.4). Named after the original's HTML5_STATE_* catalogue so the
// two stay cross-referenceable; grouped by the token family they serve.
type state int

const (
	stateData state = iota
	stateRCDATA
	stateRAWTEXT
	stateScriptData
	statePLAINTEXT
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateRCDATALessThanSign
	stateRCDATAEndTagOpen
	stateRCDATAEndTagName
	stateRAWTEXTLessThanSign
	stateRAWTEXTEndTagOpen
	stateRAWTEXTEndTagName
	stateScriptDataLessThanSign
	stateScriptDataEndTagOpen
	stateScriptDataEndTagName
	stateScriptDataEscapeStart
	stateScriptDataEscapeStartDash
	stateScriptDataEscaped
	stateScriptDataEscapedDash
	stateScriptDataEscapedDashDash
	stateScriptDataEscapedLessThanSign
	stateScriptDataEscapedEndTagOpen
	stateScriptDataEscapedEndTagName
	stateScriptDataDoubleEscapeStart
	stateScriptDataDoubleEscaped
	stateScriptDataDoubleEscapedDash
	stateScriptDataDoubleEscapedDashDash
	stateScriptDataDoubleEscapedLessThanSign
	stateScriptDataDoubleEscapeEnd
	stateBeforeAttributeName
	stateAttributeName
	stateAfterAttributeName
	stateBeforeAttributeValue
	stateAttributeValueDoubleQuoted
	stateAttributeValueSingleQuoted
	stateAttributeValueUnquoted
	stateAfterAttributeValueQuoted
	stateSelfClosingStartTag
	stateBogusComment
	stateMarkupDeclarationOpen
	stateCommentStart
	stateCommentStartDash
	stateComment
	stateCommentLessThanSign
	stateCommentLessThanSignBang
	stateCommentLessThanSignBangDash
	stateCommentLessThanSignBangDashDash
	stateCommentEndDash
	stateCommentEnd
	stateCommentEndBang
	stateDOCTYPE
	stateBeforeDOCTYPEName
	stateDOCTYPEName
	stateAfterDOCTYPEName
	stateAfterDOCTYPEPublicKeyword
	stateBeforeDOCTYPEPublicIdentifier
	stateDOCTYPEPublicIdentifierDoubleQuoted
	stateDOCTYPEPublicIdentifierSingleQuoted
	stateAfterDOCTYPEPublicIdentifier
	stateBetweenDOCTYPEPublicAndSystemIdentifiers
	stateAfterDOCTYPESystemKeyword
	stateBeforeDOCTYPESystemIdentifier
	stateDOCTYPESystemIdentifierDoubleQuoted
	stateDOCTYPESystemIdentifierSingleQuoted
	stateAfterDOCTYPESystemIdentifier
	stateBogusDOCTYPE
	stateCDATASection
	stateCDATASectionBracket
	stateCDATASectionEnd
	stateCharacterReference
	stateNamedCharacterReference
	stateAmbiguousAmpersand
	stateNumericCharacterReference
	stateHexadecimalCharacterReferenceStart
	stateDecimalCharacterReferenceStart
	stateHexadecimalCharacterReference
	stateDecimalCharacterReference
	stateNumericCharacterReferenceEnd
)
