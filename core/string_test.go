package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringBufSealResetsAndSurvives(t *testing.T) {
	a := NewArena()
	buf := NewStringBuf(a)
	buf.AppendStr("hello ")
	buf.AppendChar('世')
	s := buf.Seal()

	assert.Equal(t, "hello 世", s.Text())
	assert.Equal(t, 0, buf.Len(), "Seal must reset the buffer")

	buf.AppendStr("second")
	s2 := buf.Seal()

	// Sealed strings must remain valid after later resets (§8.1).
	assert.Equal(t, "hello 世", s.Text())
	assert.Equal(t, "second", s2.Text())
}

func TestNamePoolInterning(t *testing.T) {
	p := NewNamePool()
	a := p.Intern("div")
	b := p.Intern("div")
	c := p.Intern("span")

	assert.True(t, a == b, "same text must yield the same *Name pointer")
	assert.False(t, a == c)
}

func TestASCIIRoundTripSurvivesBuffer(t *testing.T) {
	a := NewArena()
	buf := NewStringBuf(a)
	for c := 0; c <= 0x7F; c++ {
		buf.AppendByte(byte(c))
	}
	s := buf.Seal()
	assert.Equal(t, 0x80, s.Len())
	for i, c := range s.Bytes {
		assert.Equal(t, byte(i), c)
	}
}
