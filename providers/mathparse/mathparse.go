// Package mathparse implements the recursive-descent precedence parser for
// mathematical notation (§4.6): three dialects — LaTeX, Typst, and a plain
// ASCII flavor — sharing one expression grammar (addition, then
// multiplication with implicit-multiplication insertion, then right-
// associative power, then postfix, then primary) and diverging only in how
// a primary term and its command/function syntax is recognized.
//
// Every construct becomes an ELEMENT tagged with the operator/relation name
// (add, sub, mul, pow, frac, sqrt, sum, matrix, ...); there is no separate
// math-specific value type.
package mathparse

import (
	"fmt"
	"strconv"

	"github.com/oxhq/inkwell/core"
)

// Flavor selects the notational dialect a parser invocation targets.
type Flavor int

const (
	Latex Flavor = iota
	Typst
	Ascii
)

func (f Flavor) String() string {
	switch f {
	case Latex:
		return "latex"
	case Typst:
		return "typst"
	case Ascii:
		return "ascii"
	default:
		return "unknown"
	}
}

// maxPrimaryDepth bounds primary-expression recursion (§4.6.6) so malformed
// or adversarial input cannot blow the Go call stack.
const maxPrimaryDepth = 20

// Parse parses a math expression of the given flavor into in.Root. A
// malformed expression leaves in.Root as an ERROR item (via in.Fail) rather
// than returning a Go error — parser state lives entirely in the local
// parser value, so the next call starts clean.
func Parse(in *core.Input, source []byte, flavor Flavor) error {
	p := &parser{in: in, src: []rune(string(source)), flavor: flavor}
	p.skipSpace()
	if p.atEOF() {
		in.Root = core.Null
		return nil
	}

	item, err := p.parseExpression()
	if err != nil {
		in.Fail(core.ErrUnexpectedToken, "math: %v", err)
		return nil
	}
	in.Root = item
	return nil
}

// LatexProvider parses standalone LaTeX math source (without a surrounding
// $...$ or \[...\] delimiter — those are stripped by the caller, matching
// the embedding contexts the original Markdown integration used).
type LatexProvider struct{}

func NewLatex() *LatexProvider { return &LatexProvider{} }

func (*LatexProvider) Format() string       { return "latex" }
func (*LatexProvider) Extensions() []string { return []string{".tex", ".latex"} }
func (*LatexProvider) MIMETypes() []string  { return []string{"application/x-latex", "text/x-tex"} }
func (*LatexProvider) Parse(in *core.Input, source []byte) error {
	return Parse(in, source, Latex)
}

// TypstProvider parses Typst math-mode source.
type TypstProvider struct{}

func NewTypst() *TypstProvider { return &TypstProvider{} }

func (*TypstProvider) Format() string       { return "typst" }
func (*TypstProvider) Extensions() []string { return []string{".typ"} }
func (*TypstProvider) MIMETypes() []string  { return []string{"text/x-typst"} }
func (*TypstProvider) Parse(in *core.Input, source []byte) error {
	return Parse(in, source, Typst)
}

// AsciiMathProvider parses plain ASCII-math source (§4.6.5): `^`/`**` for
// power, bare identifiers and `(` for implicit multiplication and function
// calls.
type AsciiMathProvider struct{}

func NewAsciiMath() *AsciiMathProvider { return &AsciiMathProvider{} }

func (*AsciiMathProvider) Format() string       { return "math" }
func (*AsciiMathProvider) Extensions() []string { return []string{".math"} }
func (*AsciiMathProvider) MIMETypes() []string  { return []string{"text/x-asciimath"} }
func (*AsciiMathProvider) Parse(in *core.Input, source []byte) error {
	return Parse(in, source, Ascii)
}

type parser struct {
	in     *core.Input
	src    []rune
	pos    int
	flavor Flavor
	depth  int
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) skipSpace() {
	for !p.atEOF() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consumeLiteral(lit string) bool {
	runes := []rune(lit)
	if p.pos+len(runes) > len(p.src) {
		return false
	}
	for i, r := range runes {
		if p.src[p.pos+i] != r {
			return false
		}
	}
	p.pos += len(runes)
	return true
}

func (p *parser) hasLiteral(lit string) bool {
	runes := []rune(lit)
	if p.pos+len(runes) > len(p.src) {
		return false
	}
	for i, r := range runes {
		if p.src[p.pos+i] != r {
			return false
		}
	}
	return true
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool  { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdent(r rune) bool  { return isAlpha(r) || isDigit(r) }

func (p *parser) element(tag string) *core.Element {
	return core.NewElement(p.in.Arena, p.in.Names.Intern(tag))
}

func (p *parser) binary(tag string, left, right core.Item) core.Item {
	e := p.element(tag)
	e.AddChild(left)
	e.AddChild(right)
	return core.ElementItem(e)
}

// parseExpression is the grammar entry point: addition is the lowest
// precedence level (§4.6.2).
func (p *parser) parseExpression() (core.Item, error) {
	return p.parseAddition()
}

func (p *parser) parseAddition() (core.Item, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return core.Null, err
	}

	p.skipSpace()
	for !p.atEOF() && (p.peek() == '+' || p.peek() == '-') {
		op := p.advance()
		tag := "add"
		if op == '-' {
			tag = "sub"
		}
		p.skipSpace()

		right, err := p.parseMultiplication()
		if err != nil {
			return core.Null, err
		}
		left = p.binary(tag, left, right)
		p.skipSpace()
	}
	return left, nil
}

// parseMultiplication handles explicit `*`/`/` and implicit multiplication
// between adjacent primary terms (§4.6.2 rule 2).
func (p *parser) parseMultiplication() (core.Item, error) {
	left, err := p.parsePower()
	if err != nil {
		return core.Null, err
	}

	p.skipSpace()
	for !p.atEOF() {
		explicit := false
		tag := "mul"

		switch {
		case p.peek() == '*' && p.peekAt(1) != '*':
			explicit = true
			tag = "mul"
			p.advance()
			p.skipSpace()
		case p.peek() == '/':
			explicit = true
			tag = "div"
			p.advance()
			p.skipSpace()
		case p.startsImplicitTerm():
			// no operator to consume; fall through to parse the next primary.
		default:
			return left, nil
		}

		right, err := p.parsePower()
		if err != nil {
			if explicit {
				return core.Null, err
			}
			break
		}
		left = p.binary(tag, left, right)
		p.skipSpace()
	}
	return left, nil
}

// startsImplicitTerm reports whether the cursor sits at the start of a term
// that can follow another term with no operator between them: identifier,
// parenthesized expression, number, or (in LaTeX) command (§4.6.2 rule 2 —
// unlike some implementations, this applies uniformly across flavors, not
// just to Typst/ASCII identifiers).
func (p *parser) startsImplicitTerm() bool {
	c := p.peek()
	switch {
	case c == '\\' && p.flavor == Latex:
		// "\\" separates rows, and \end, \right, \rceil and \rfloor close an
		// enclosing construct; none of them starts a new term.
		if p.peekAt(1) == '\\' {
			return false
		}
		j := p.pos + 1
		for j < len(p.src) && isAlpha(p.src[j]) {
			j++
		}
		switch string(p.src[p.pos+1 : j]) {
		case "end", "right", "rceil", "rfloor":
			return false
		}
		return true
	case isAlpha(c):
		return true
	case c == '(':
		return true
	case isDigit(c):
		return true
	default:
		return false
	}
}

// parsePower handles `^`/`**`, right-associative (§4.6.2 rule 3).
func (p *parser) parsePower() (core.Item, error) {
	left, err := p.parsePrimaryWithPostfix()
	if err != nil {
		return core.Null, err
	}

	p.skipSpace()
	switch {
	case p.peek() == '^' && p.flavor != Latex:
		p.advance()
		p.skipSpace()
		right, err := p.parsePower()
		if err != nil {
			return core.Null, err
		}
		return p.binary("pow", left, right), nil
	case p.peek() == '*' && p.peekAt(1) == '*':
		p.pos += 2
		p.skipSpace()
		right, err := p.parsePower()
		if err != nil {
			return core.Null, err
		}
		return p.binary("pow", left, right), nil
	default:
		return left, nil
	}
}

// parsePrimaryWithPostfix applies postfix operators (^, _ in LaTeX; prime '
// in every flavor) in source order (§4.6.2 rule 4).
func (p *parser) parsePrimaryWithPostfix() (core.Item, error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return core.Null, err
	}

	for {
		p.skipSpace()
		switch {
		case p.flavor == Latex && p.peek() == '^':
			p.advance()
			exp, err := p.parseBracedOrPrimary()
			if err != nil {
				return core.Null, err
			}
			primary = p.binary("pow", primary, exp)
		case p.flavor == Latex && p.peek() == '_':
			p.advance()
			sub, err := p.parseBracedOrPrimary()
			if err != nil {
				return core.Null, err
			}
			primary = p.binary("sub", primary, sub)
		case p.peek() == '\'':
			count := 0
			for !p.atEOF() && p.peek() == '\'' {
				p.advance()
				count++
			}
			e := p.element("prime")
			e.SetAttr(p.in.Names.Intern("count"), core.Int(int64(count)))
			e.AddChild(primary)
			primary = core.ElementItem(e)
		default:
			return primary, nil
		}
	}
}

// parseBracedOrPrimary parses `{expr}` if present, else a single primary —
// the form LaTeX accepts after `^`/`_`.
func (p *parser) parseBracedOrPrimary() (core.Item, error) {
	p.skipSpace()
	if p.peek() == '{' {
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return core.Null, err
		}
		p.skipSpace()
		if p.atEOF() || p.advance() != '}' {
			return core.Null, fmt.Errorf("expected '}' at offset %d", p.pos)
		}
		return inner, nil
	}
	return p.parsePrimary()
}

// parsePrimary implements §4.6.2 rule 5, dispatching per flavor.
func (p *parser) parsePrimary() (core.Item, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxPrimaryDepth {
		return core.Null, fmt.Errorf("primary recursion exceeded depth %d", maxPrimaryDepth)
	}

	p.skipSpace()
	if p.atEOF() {
		return core.Null, fmt.Errorf("unexpected end of input")
	}

	if p.flavor == Latex && p.peek() == '\\' {
		return p.parseLatexCommand()
	}

	if p.peek() == '-' && isDigit(p.peekAt(1)) {
		return p.parseNumber()
	}
	if isDigit(p.peek()) {
		return p.parseNumber()
	}
	if isAlpha(p.peek()) {
		return p.parseIdentifierOrCall()
	}
	if p.peek() == '(' {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return core.Null, err
		}
		p.skipSpace()
		if p.atEOF() || p.advance() != ')' {
			return core.Null, fmt.Errorf("expected ')' at offset %d", p.pos)
		}
		return expr, nil
	}

	return core.Null, fmt.Errorf("unexpected character %q at offset %d", p.peek(), p.pos)
}

func (p *parser) parseNumber() (core.Item, error) {
	start := p.pos
	if p.peek() == '-' {
		p.advance()
	}
	for !p.atEOF() && isDigit(p.peek()) {
		p.advance()
	}
	isFloat := false
	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		isFloat = true
		p.advance()
		for !p.atEOF() && isDigit(p.peek()) {
			p.advance()
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
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return core.Null, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return core.Int(n), nil
}

func (p *parser) readIdent() string {
	start := p.pos
	for !p.atEOF() && isIdent(p.peek()) {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

// parseIdentifierOrCall handles plain identifiers and, for Typst/ASCII,
// function-call notation `name(args...)` (§4.6.5): a lookahead for `(`
// decides, and unknown-function calls fall back to a bare identifier if
// call parsing fails, mirroring the original's backtracking.
func (p *parser) parseIdentifierOrCall() (core.Item, error) {
	if p.flavor == Latex {
		return p.identifierItem(p.readIdent()), nil
	}

	save := p.pos
	name := p.readIdent()

	if p.peek() != '(' {
		return p.identifierItem(name), nil
	}

	if p.flavor == Typst && name == "frac" {
		return p.parseTypstFraction()
	}

	call, err := p.parseFunctionCall(name)
	if err == nil {
		return call, nil
	}
	p.pos = save
	return p.identifierItem(p.readIdent()), nil
}

func (p *parser) identifierItem(name string) core.Item {
	e := p.element("identifier")
	e.SetAttr(p.in.Names.Intern("name"), core.StringItem(core.NewStringFromString(p.in.Arena, name)))
	return core.ElementItem(e)
}

func (p *parser) parseFunctionCall(name string) (core.Item, error) {
	if p.atEOF() || p.advance() != '(' {
		return core.Null, fmt.Errorf("expected '(' after function name %q", name)
	}
	e := p.element(name)
	p.skipSpace()
	if p.peek() != ')' {
		for {
			p.skipSpace()
			arg, err := p.parseExpression()
			if err != nil {
				return core.Null, err
			}
			e.AddChild(arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.advance()
				continue
			}
			break
		}
	}
	p.skipSpace()
	if p.atEOF() || p.advance() != ')' {
		return core.Null, fmt.Errorf("expected ')' to close call to %q", name)
	}
	return core.ElementItem(e), nil
}

// parseTypstFraction handles Typst's `frac(a, b)` call form (§4.6.4's
// "fractions can be frac(a, b) or just a/b"; division is handled by the
// ordinary multiplication level).
func (p *parser) parseTypstFraction() (core.Item, error) {
	if p.atEOF() || p.advance() != '(' {
		return core.Null, fmt.Errorf("expected '(' after frac")
	}
	p.skipSpace()
	numerator, err := p.parseExpression()
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if p.atEOF() || p.advance() != ',' {
		return core.Null, fmt.Errorf("expected ',' in frac(...)")
	}
	p.skipSpace()
	denominator, err := p.parseExpression()
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if p.atEOF() || p.advance() != ')' {
		return core.Null, fmt.Errorf("expected ')' to close frac(...)")
	}
	return p.binary("frac", numerator, denominator), nil
}

// --- LaTeX command dispatch (§4.6.3) ---

var greekLetters = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "pi": true, "rho": true,
	"sigma": true, "tau": true, "upsilon": true, "phi": true, "chi": true,
	"psi": true, "omega": true,
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true, "Xi": true,
	"Pi": true, "Sigma": true, "Upsilon": true, "Phi": true, "Psi": true, "Omega": true,
}

var mathOperators = map[string]bool{
	"cdot": true, "times": true, "div": true, "pm": true, "mp": true,
	"leq": true, "geq": true, "neq": true, "approx": true, "equiv": true,
	"sim": true, "propto": true, "perp": true, "parallel": true, "angle": true,
}

var numberSetNames = map[string]string{"R": "ℝ", "N": "ℕ", "Z": "ℤ", "Q": "ℚ", "C": "ℂ"}

var setOperations = map[string]bool{
	"in": true, "notin": true, "subset": true, "supset": true,
	"cup": true, "cap": true, "emptyset": true,
}

var logicOperators = map[string]bool{
	"forall": true, "exists": true, "land": true, "lor": true,
	"neg": true, "Rightarrow": true, "Leftrightarrow": true,
}

var binomialCmds = map[string]bool{"binom": true, "choose": true, "tbinom": true, "dbinom": true}

var vectorCmds = map[string]bool{"vec": true, "overrightarrow": true, "overleftarrow": true}

var accentCmds = map[string]bool{
	"hat": true, "widehat": true, "dot": true, "ddot": true, "bar": true,
	"tilde": true, "widetilde": true, "acute": true, "grave": true,
	"check": true, "breve": true,
}

var arrowCmds = map[string]bool{
	"rightarrow": true, "leftarrow": true, "to": true, "gets": true,
	"uparrow": true, "downarrow": true, "updownarrow": true, "leftrightarrow": true,
}

var trigFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "csc": true, "sec": true, "cot": true,
	"sinh": true, "cosh": true, "tanh": true, "arcsin": true, "arccos": true, "arctan": true,
}

var logFunctions = map[string]bool{"log": true, "ln": true, "lg": true, "exp": true}

var matrixEnvironments = map[string]bool{
	"matrix": true, "pmatrix": true, "bmatrix": true,
	"vmatrix": true, "Vmatrix": true, "smallmatrix": true,
}

func (p *parser) parseLatexCommand() (core.Item, error) {
	if p.consumeLiteral("\\begin{") {
		return p.parseEnvironment()
	}

	p.advance() // '\'
	if p.atEOF() || !isAlpha(p.peek()) {
		// A symbol like \, \\ or punctuation escape: treat as a literal
		// one-character symbol.
		if p.atEOF() {
			return core.Null, fmt.Errorf("empty LaTeX command")
		}
		c := p.advance()
		return core.SymbolItem(core.NewStringFromString(p.in.Arena, string(c))), nil
	}
	cmd := p.readIdent()

	switch {
	case cmd == "frac":
		return p.parseLatexTwoArg("frac")
	case cmd == "sqrt":
		return p.parseLatexSqrt()
	case cmd == "sum" || cmd == "prod":
		return p.parseLatexLimitedOp(cmd)
	case cmd == "int":
		return p.parseLatexLimitedOp("int")
	case cmd == "lim":
		return p.parseLatexLim()
	case matrixEnvironments[cmd]:
		return p.parseMatrix(cmd)
	case cmd == "cases":
		return p.parseCases()
	case cmd == "left":
		p.skipSpace()
		if p.peek() == '|' {
			p.advance()
			return p.parseAbsUntil("\\right|")
		}
		return core.SymbolItem(core.NewStringFromString(p.in.Arena, "left")), nil
	case cmd == "abs":
		return p.parseBracedAbs()
	case cmd == "lceil":
		return p.parseDelimited("ceil", "\\rceil")
	case cmd == "lfloor":
		return p.parseDelimited("floor", "\\rfloor")
	case cmd == "mathbb":
		return p.parseNumberSet()
	case setOperations[cmd]:
		return p.symbolElement(cmd)
	case logicOperators[cmd]:
		return p.symbolElement(cmd)
	case binomialCmds[cmd]:
		return p.parseLatexTwoArg("binom")
	case vectorCmds[cmd]:
		return p.parseAccentLike("vec", "position", "over")
	case accentCmds[cmd]:
		return p.parseAccentLike(cmd, "accent", cmd)
	case arrowCmds[cmd]:
		e := p.element("arrow")
		e.SetAttr(p.in.Names.Intern("direction"), core.StringItem(core.NewStringFromString(p.in.Arena, cmd)))
		return core.ElementItem(e), nil
	case cmd == "overline" || cmd == "underline" || cmd == "overbrace" || cmd == "underbrace":
		return p.parseAccentLike(cmd, "construct", cmd)
	case cmd == "infty":
		return p.symbolWithGlyph("infty", "∞")
	case cmd == "partial":
		return p.symbolWithGlyph("partial", "∂")
	case trigFunctions[cmd] || logFunctions[cmd]:
		return p.parseLatexFunction(cmd)
	case greekLetters[cmd] || mathOperators[cmd]:
		return core.SymbolItem(core.NewStringFromString(p.in.Arena, cmd)), nil
	default:
		// Unknown command: treated as a bare symbol (§4.6.3's fallthrough).
		return core.SymbolItem(core.NewStringFromString(p.in.Arena, cmd)), nil
	}
}

func (p *parser) symbolElement(name string) (core.Item, error) {
	return core.SymbolItem(core.NewStringFromString(p.in.Arena, name)), nil
}

func (p *parser) symbolWithGlyph(tag, glyph string) (core.Item, error) {
	e := p.element(tag)
	e.SetAttr(p.in.Names.Intern("symbol"), core.StringItem(core.NewStringFromString(p.in.Arena, glyph)))
	return core.ElementItem(e), nil
}

func (p *parser) parseBraced() (core.Item, error) {
	p.skipSpace()
	if p.atEOF() || p.advance() != '{' {
		return core.Null, fmt.Errorf("expected '{' at offset %d", p.pos)
	}
	inner, err := p.parseExpression()
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if p.atEOF() || p.advance() != '}' {
		return core.Null, fmt.Errorf("expected '}' at offset %d", p.pos)
	}
	return inner, nil
}

func (p *parser) parseLatexTwoArg(tag string) (core.Item, error) {
	first, err := p.parseBraced()
	if err != nil {
		return core.Null, err
	}
	second, err := p.parseBraced()
	if err != nil {
		return core.Null, err
	}
	return p.binary(tag, first, second), nil
}

func (p *parser) parseLatexSqrt() (core.Item, error) {
	inner, err := p.parseBraced()
	if err != nil {
		return core.Null, err
	}
	e := p.element("sqrt")
	e.AddChild(inner)
	return core.ElementItem(e), nil
}

// parseLatexLimitedOp handles \sum, \prod, \int with optional `_{lower}`
// and `^{upper}` limits followed by the integrand (§4.6.3).
func (p *parser) parseLatexLimitedOp(tag string) (core.Item, error) {
	e := p.element(tag)
	p.skipSpace()
	if p.peek() == '_' {
		p.advance()
		lower, err := p.parseBracedOrPrimary()
		if err != nil {
			return core.Null, err
		}
		e.SetAttr(p.in.Names.Intern("lower"), lower)
	}
	p.skipSpace()
	if p.peek() == '^' {
		p.advance()
		upper, err := p.parseBracedOrPrimary()
		if err != nil {
			return core.Null, err
		}
		e.SetAttr(p.in.Names.Intern("upper"), upper)
	}
	p.skipSpace()
	integrand, err := p.parseAddition()
	if err != nil {
		return core.Null, err
	}
	e.AddChild(integrand)
	return core.ElementItem(e), nil
}

func (p *parser) parseLatexLim() (core.Item, error) {
	e := p.element("lim")
	p.skipSpace()
	if p.peek() == '_' {
		p.advance()
		approach, err := p.parseBracedOrPrimary()
		if err != nil {
			return core.Null, err
		}
		e.SetAttr(p.in.Names.Intern("approach"), approach)
	}
	p.skipSpace()
	fn, err := p.parseMultiplication()
	if err != nil {
		return core.Null, err
	}
	e.AddChild(fn)
	return core.ElementItem(e), nil
}

func (p *parser) parseLatexFunction(name string) (core.Item, error) {
	e := p.element(name)
	p.skipSpace()
	arg, err := p.parsePrimaryWithPostfix()
	if err != nil {
		return core.Null, err
	}
	e.AddChild(arg)
	return core.ElementItem(e), nil
}

func (p *parser) parseBracedAbs() (core.Item, error) {
	inner, err := p.parseBraced()
	if err != nil {
		return core.Null, err
	}
	e := p.element("abs")
	e.AddChild(inner)
	return core.ElementItem(e), nil
}

func (p *parser) parseAbsUntil(closer string) (core.Item, error) {
	inner, err := p.parseExpression()
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if !p.consumeLiteral(closer) {
		return core.Null, fmt.Errorf("expected %q", closer)
	}
	e := p.element("abs")
	e.AddChild(inner)
	return core.ElementItem(e), nil
}

func (p *parser) parseDelimited(tag, closer string) (core.Item, error) {
	inner, err := p.parseExpression()
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if !p.consumeLiteral(closer) {
		return core.Null, fmt.Errorf("expected %q", closer)
	}
	e := p.element(tag)
	e.AddChild(inner)
	return core.ElementItem(e), nil
}

func (p *parser) parseNumberSet() (core.Item, error) {
	p.skipSpace()
	if p.atEOF() || p.advance() != '{' {
		return core.Null, fmt.Errorf("expected '{' after mathbb")
	}
	p.skipSpace()
	start := p.pos
	for !p.atEOF() && isAlpha(p.peek()) {
		p.advance()
	}
	name := string(p.src[start:p.pos])
	p.skipSpace()
	if p.atEOF() || p.advance() != '}' {
		return core.Null, fmt.Errorf("expected '}' to close mathbb")
	}
	glyph, ok := numberSetNames[name]
	if !ok {
		glyph = name
	}
	e := p.element("number_set")
	e.SetAttr(p.in.Names.Intern("symbol"), core.StringItem(core.NewStringFromString(p.in.Arena, glyph)))
	return core.ElementItem(e), nil
}

// parseAccentLike handles the one-braced-operand-plus-position-attribute
// family: \vec, \hat, \dot, \bar, \tilde, \overline, \underline, ... .
func (p *parser) parseAccentLike(tag, attrName, attrValue string) (core.Item, error) {
	inner, err := p.parseBraced()
	if err != nil {
		return core.Null, err
	}
	e := p.element(tag)
	e.SetAttr(p.in.Names.Intern(attrName), core.StringItem(core.NewStringFromString(p.in.Arena, attrValue)))
	e.AddChild(inner)
	return core.ElementItem(e), nil
}

// --- Environment parsers (§4.6.4) ---

// parseEnvironment is reached after consuming "\begin{"; it reads the
// environment name up to '}' and dispatches.
func (p *parser) parseEnvironment() (core.Item, error) {
	start := p.pos
	for !p.atEOF() && p.peek() != '}' {
		p.advance()
	}
	if p.atEOF() {
		return core.Null, fmt.Errorf("unterminated \\begin{...}")
	}
	name := string(p.src[start:p.pos])
	p.advance() // '}'

	switch {
	case matrixEnvironments[name]:
		return p.parseMatrixBody(name)
	case name == "cases":
		return p.parseCasesBody()
	case name == "equation":
		return p.parseRowEnvironment("equation", false)
	case name == "align":
		return p.parseAlignEnvironment("align", true)
	case name == "aligned":
		return p.parseAlignEnvironment("aligned", false)
	case name == "gather":
		return p.parseRowEnvironment("gather", true)
	default:
		return core.Null, fmt.Errorf("unknown environment %q", name)
	}
}

func (p *parser) consumeEnd(name string) bool {
	return p.consumeLiteral("\\end{" + name + "}")
}

// parseMatrix handles the bare \matrix{...}/\pmatrix{...} call form reached
// via parseLatexCommand's matrixEnvironments branch. The
// \begin{matrix}...\end{matrix} form goes through parseEnvironment and
// parseMatrixBody instead; both use the same row/cell grammar.
func (p *parser) parseMatrix(name string) (core.Item, error) {
	p.skipSpace()
	if p.peek() == '{' {
		p.advance()
		item, err := p.parseMatrixRows(name)
		if err != nil {
			return core.Null, err
		}
		p.skipSpace()
		if p.atEOF() || p.advance() != '}' {
			return core.Null, fmt.Errorf("expected '}' to close %s", name)
		}
		return item, nil
	}
	return core.Null, fmt.Errorf("expected '{' after %s", name)
}

func (p *parser) parseMatrixBody(name string) (core.Item, error) {
	item, err := p.parseMatrixRows(name)
	if err != nil {
		return core.Null, err
	}
	if !p.consumeEnd(name) {
		return core.Null, fmt.Errorf("expected \\end{%s}", name)
	}
	return item, nil
}

// parseMatrixRows implements the matrix family's "rows separated by \\,
// cells by &" grammar (§4.6.4), recording rows/cols and tolerating
// inconsistent column counts with a non-fatal accumulated error.
func (p *parser) parseMatrixRows(name string) (core.Item, error) {
	matrix := p.element(name)
	cols := -1
	rows := 0

	for {
		p.skipSpace()
		if p.atEOF() || p.hasLiteral("\\end{"+name+"}") || p.peek() == '}' {
			break
		}

		row := p.element("row")
		cellCount := 0
		for {
			p.skipSpace()
			cell, err := p.parseAddition()
			if err != nil {
				return core.Null, err
			}
			row.AddChild(cell)
			cellCount++
			p.skipSpace()
			if p.consumeLiteral("&") {
				continue
			}
			break
		}

		if cols == -1 {
			cols = cellCount
		} else if cellCount != cols {
			p.in.AddError(core.ErrMalformedEnvironment, core.Position{},
				"inconsistent column count in %s row %d: expected %d, got %d", name, rows+1, cols, cellCount)
		}

		matrix.AddChild(core.ElementItem(row))
		rows++

		p.skipSpace()
		if p.consumeLiteral("\\\\") {
			continue
		}
		break
	}

	matrix.SetAttr(p.in.Names.Intern("rows"), core.Int(int64(rows)))
	matrix.SetAttr(p.in.Names.Intern("cols"), core.Int(int64(maxInt(cols, 0))))
	return core.ElementItem(matrix), nil
}

// parseCases implements the bare \cases{...} call form.
func (p *parser) parseCases() (core.Item, error) {
	p.skipSpace()
	if p.atEOF() || p.advance() != '{' {
		return core.Null, fmt.Errorf("expected '{' after cases")
	}
	item, err := p.parseCasesRows("}")
	if err != nil {
		return core.Null, err
	}
	p.skipSpace()
	if p.atEOF() || p.advance() != '}' {
		return core.Null, fmt.Errorf("expected '}' to close cases")
	}
	return item, nil
}

func (p *parser) parseCasesBody() (core.Item, error) {
	item, err := p.parseCasesRows("\\end{cases}")
	if err != nil {
		return core.Null, err
	}
	if !p.consumeEnd("cases") {
		return core.Null, fmt.Errorf("expected \\end{cases}")
	}
	return item, nil
}

// parseCasesRows implements "each row is expr & condition" (§4.6.4).
func (p *parser) parseCasesRows(terminator string) (core.Item, error) {
	cases := p.element("cases")
	rows := 0

	for {
		p.skipSpace()
		if p.atEOF() || p.hasLiteral(terminator) {
			break
		}

		row := p.element("case")
		expr, err := p.parseAddition()
		if err != nil {
			return core.Null, err
		}
		row.AddChild(expr)

		p.skipSpace()
		if p.consumeLiteral("&") {
			p.skipSpace()
			cond, err := p.parseAddition()
			if err != nil {
				return core.Null, err
			}
			row.AddChild(cond)
		}

		cases.AddChild(core.ElementItem(row))
		rows++

		p.skipSpace()
		if p.consumeLiteral("\\\\") {
			continue
		}
		break
	}

	cases.SetAttr(p.in.Names.Intern("rows"), core.Int(int64(rows)))
	return core.ElementItem(cases), nil
}

// parseRowEnvironment implements equation/gather: one or more rows
// separated by \\, no & splitting (§4.6.4).
func (p *parser) parseRowEnvironment(name string, numbered bool) (core.Item, error) {
	env := p.element(name)
	env.SetAttr(p.in.Names.Intern("numbered"), core.Bool(numbered))
	count := 0

	for {
		p.skipSpace()
		if p.atEOF() || p.hasLiteral("\\end{"+name+"}") {
			break
		}

		expr, err := p.parseAddition()
		if err != nil {
			return core.Null, err
		}
		env.AddChild(expr)
		count++

		p.skipSpace()
		if p.consumeLiteral("\\\\") {
			continue
		}
		break
	}

	if !p.consumeEnd(name) {
		return core.Null, fmt.Errorf("expected \\end{%s}", name)
	}
	env.SetAttr(p.in.Names.Intern("equations"), core.Int(int64(count)))
	return core.ElementItem(env), nil
}

// parseAlignEnvironment implements align/aligned: rows split on & into
// left/right halves (§4.6.4).
func (p *parser) parseAlignEnvironment(name string, numbered bool) (core.Item, error) {
	env := p.element(name)
	env.SetAttr(p.in.Names.Intern("numbered"), core.Bool(numbered))
	env.SetAttr(p.in.Names.Intern("alignment"), core.StringItem(core.NewStringFromString(p.in.Arena, "left-right")))
	count := 0

	for {
		p.skipSpace()
		if p.atEOF() || p.hasLiteral("\\end{"+name+"}") {
			break
		}

		row := p.element("row")
		left, err := p.parseAddition()
		if err != nil {
			return core.Null, err
		}
		row.AddChild(left)

		p.skipSpace()
		if p.consumeLiteral("&") {
			p.skipSpace()
			right, err := p.parseAddition()
			if err != nil {
				return core.Null, err
			}
			row.AddChild(right)
		}

		env.AddChild(core.ElementItem(row))
		count++

		p.skipSpace()
		if p.consumeLiteral("\\\\") {
			continue
		}
		break
	}

	if !p.consumeEnd(name) {
		return core.Null, fmt.Errorf("expected \\end{%s}", name)
	}
	env.SetAttr(p.in.Names.Intern("equations"), core.Int(int64(count)))
	return core.ElementItem(env), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
