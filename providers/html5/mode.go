package html5

// insertionMode is the tree constructor's current position in the 23-mode
// state machine (§4.5), named after the original's Html5InsertionMode
// catalogue.
type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeInHeadNoscript
	modeAfterHead
	modeInBody
	modeText
	modeInTable
	modeInTableText
	modeInCaption
	modeInColumnGroup
	modeInTableBody
	modeInRow
	modeInCell
	modeInSelect
	modeInSelectInTable
	modeInTemplate
	modeAfterBody
	modeInFrameset
	modeAfterFrameset
	modeAfterAfterBody
	modeAfterAfterFrameset
)

// quirksMode is the document compatibility mode the DOCTYPE token selects
// (§4.5).
type quirksMode int

const (
	noQuirks quirksMode = iota
	limitedQuirks
	quirks
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// specialElements is the WHATWG "special" category (§4.5's scope-finding
// and "implied end tags" algorithms stop at these), trimmed to the
// non-foreign-content subset relevant here.
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true, "aside": true,
	"base": true, "basefont": true, "bgsound": true, "blockquote": true, "body": true,
	"br": true, "button": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dir": true, "div": true,
	"dl": true, "dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hgroup": true, "hr": true, "html": true,
	"iframe": true, "img": true, "input": true, "li": true, "link": true,
	"listing": true, "main": true, "marquee": true, "menu": true, "meta": true,
	"nav": true, "noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "optgroup": true, "option": true, "p": true, "param": true,
	"plaintext": true, "pre": true, "script": true, "section": true, "select": true,
	"source": true, "style": true, "summary": true, "table": true, "tbody": true,
	"td": true, "template": true, "textarea": true, "tfoot": true, "th": true,
	"thead": true, "title": true, "tr": true, "track": true, "ul": true, "wbr": true,
}

// formattingElements is the WHATWG "formatting" category, the set the
// active formatting elements list and adoption agency algorithm operate on
// (§4.5).
var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true, "font": true,
	"i": true, "nobr": true, "s": true, "small": true, "strike": true,
	"strong": true, "tt": true, "u": true,
}

var headingElements = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}
