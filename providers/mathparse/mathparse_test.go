package mathparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
)

func parseFlavor(t *testing.T, source string, flavor Flavor) *core.Input {
	t.Helper()
	in := core.NewInput(flavor.String(), nil)
	require.NoError(t, Parse(in, []byte(source), flavor))
	return in
}

func TestLatexAdditionAndSubtraction(t *testing.T) {
	in := parseFlavor(t, `a+b-c`, Latex)
	require.False(t, in.Root.IsError())
	require.Equal(t, core.TagElement, in.Root.Tag)
	outer := in.Root.Element()
	assert.Equal(t, "sub", outer.Tag.String())
}

func TestLatexFrac(t *testing.T) {
	in := parseFlavor(t, `\frac{a+b}{c}`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "frac", elem.Tag.String())
	require.Equal(t, 2, elem.ContentLength())

	numerator := elem.Child(0).Element()
	assert.Equal(t, "add", numerator.Tag.String())

	denominator := elem.Child(1).Element()
	assert.Equal(t, "identifier", denominator.Tag.String())
}

func TestLatexMatrix(t *testing.T) {
	in := parseFlavor(t, `\begin{pmatrix}1&2\\3&4\end{pmatrix}`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "pmatrix", elem.Tag.String())

	rows, ok := elem.Attr(in.Names.Intern("rows"))
	require.True(t, ok)
	assert.Equal(t, int64(2), rows.Int())

	cols, ok := elem.Attr(in.Names.Intern("cols"))
	require.True(t, ok)
	assert.Equal(t, int64(2), cols.Int())

	require.Equal(t, 2, elem.ContentLength())
	row0 := elem.Child(0).Element()
	require.Equal(t, 2, row0.ContentLength())
	assert.Equal(t, int64(1), row0.Child(0).Int())
	assert.Equal(t, int64(2), row0.Child(1).Int())
}

func TestLatexImplicitMultiplication(t *testing.T) {
	in := parseFlavor(t, `2x`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	assert.Equal(t, "mul", elem.Tag.String())
	assert.Equal(t, int64(2), elem.Child(0).Int())
}

// LaTeX's ^/_ are postfix operators applied in source order (§4.6.2 rule
// 4), so repeated superscripts nest left-to-right rather than associating
// to the right the way the bare ^ operator does in Typst/ASCII (rule 3).
func TestLatexPowerAppliesPostfixInSourceOrder(t *testing.T) {
	in := parseFlavor(t, `a^b^c`, Latex)
	require.False(t, in.Root.IsError())
	outer := in.Root.Element()
	require.Equal(t, "pow", outer.Tag.String())
	inner := outer.Child(0).Element()
	assert.Equal(t, "pow", inner.Tag.String())
}

func TestAsciiPowerRightAssociative(t *testing.T) {
	in := parseFlavor(t, `a^b^c`, Ascii)
	require.False(t, in.Root.IsError())
	outer := in.Root.Element()
	require.Equal(t, "pow", outer.Tag.String())
	inner := outer.Child(1).Element()
	assert.Equal(t, "pow", inner.Tag.String())
}

func TestLatexPrimeNotation(t *testing.T) {
	in := parseFlavor(t, `f''`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "prime", elem.Tag.String())
	count, ok := elem.Attr(in.Names.Intern("count"))
	require.True(t, ok)
	assert.Equal(t, int64(2), count.Int())
}

func TestLatexGreekLetterIsSymbol(t *testing.T) {
	in := parseFlavor(t, `\alpha`, Latex)
	require.False(t, in.Root.IsError())
	assert.Equal(t, core.TagSymbol, in.Root.Tag)
	assert.Equal(t, "alpha", in.Root.String_().Text())
}

func TestLatexSumWithLimits(t *testing.T) {
	in := parseFlavor(t, `\sum_{i}^{n} i`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "sum", elem.Tag.String())
	_, hasLower := elem.Attr(in.Names.Intern("lower"))
	_, hasUpper := elem.Attr(in.Names.Intern("upper"))
	assert.True(t, hasLower)
	assert.True(t, hasUpper)
	require.Equal(t, 1, elem.ContentLength())
}

func TestLatexCases(t *testing.T) {
	in := parseFlavor(t, `\begin{cases}1 & positive\\-1 & negative\end{cases}`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "cases", elem.Tag.String())
	require.Equal(t, 2, elem.ContentLength())
	row0 := elem.Child(0).Element()
	require.Equal(t, 2, row0.ContentLength())
}

func TestTypstPowerAndFraction(t *testing.T) {
	in := parseFlavor(t, `x^2`, Typst)
	require.False(t, in.Root.IsError())
	assert.Equal(t, "pow", in.Root.Element().Tag.String())

	in = parseFlavor(t, `frac(a, b)`, Typst)
	require.False(t, in.Root.IsError())
	frac := in.Root.Element()
	require.Equal(t, "frac", frac.Tag.String())
	require.Equal(t, 2, frac.ContentLength())
}

func TestAsciiFunctionCall(t *testing.T) {
	in := parseFlavor(t, `sin(x)`, Ascii)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	assert.Equal(t, "sin", elem.Tag.String())
	require.Equal(t, 1, elem.ContentLength())
}

func TestAsciiDoubleStarPower(t *testing.T) {
	in := parseFlavor(t, `x**2`, Ascii)
	require.False(t, in.Root.IsError())
	assert.Equal(t, "pow", in.Root.Element().Tag.String())
}

func TestLatexNumberSet(t *testing.T) {
	in := parseFlavor(t, `\mathbb{R}`, Latex)
	require.False(t, in.Root.IsError())
	elem := in.Root.Element()
	require.Equal(t, "number_set", elem.Tag.String())
	symbol, ok := elem.Attr(in.Names.Intern("symbol"))
	require.True(t, ok)
	assert.Equal(t, "ℝ", symbol.String_().Text())
}

func TestMalformedMathProducesError(t *testing.T) {
	in := core.NewInput("math", nil)
	require.NoError(t, Parse(in, []byte(`\frac{a}{`), Latex))
	assert.True(t, in.Root.IsError())
	assert.NotEmpty(t, in.Errors)
}

func TestProviderExtensionsAndFormats(t *testing.T) {
	assert.Equal(t, "latex", NewLatex().Format())
	assert.Equal(t, "typst", NewTypst().Format())
	assert.Equal(t, "math", NewAsciiMath().Format())
	assert.Contains(t, NewLatex().Extensions(), ".tex")
	assert.Contains(t, NewTypst().Extensions(), ".typ")
	assert.Contains(t, NewAsciiMath().Extensions(), ".math")
}
