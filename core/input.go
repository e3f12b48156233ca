package core

import "fmt"

// Input is the root parsing context: it owns the arena, the shared string
// buffer, and a name-pool binding for the duration of one parse (§3.7,
// §4.8). Every item reachable from Root lives in this Input's Arena; no
// parser may hand out a pointer into Arena/Buf/Names that outlives the
// Input.
type Input struct {
	Arena *Arena
	Buf   *StringBuf
	Names *NamePool

	// Format is the dispatcher's resolved format identifier ("html5",
	// "json", "math:latex", ...).
	Format string

	// Root holds the parsed value, or an ERROR item on failure (§4.8.3).
	Root Item

	// Errors accumulates non-fatal parse errors (§7.2). Tree construction
	// in particular never fails outright; malformed input still produces a
	// tree plus this list.
	Errors []*ParseError
}

// NewInput allocates a fresh arena/buffer/name-pool triple and binds them
// into an Input, as the format dispatcher does for every parse (§4.8 step
// 1). Passing a shared NamePool lets a session keep identifier interning
// consistent across multiple Inputs; pass nil to mint a private one.
func NewInput(format string, names *NamePool) *Input {
	a := NewArena()
	if names == nil {
		names = NewNamePool()
	}
	return &Input{
		Arena: a,
		Buf:   NewStringBuf(a),
		Names: names,
		Format: format,
		Root:   Null,
	}
}

// AddError appends a non-fatal parse error, the discipline every parser in
// this toolchain uses instead of returning a Go error for malformed
// document content (§7.2).
func (in *Input) AddError(code ErrorCode, pos Position, format string, args ...any) {
	in.Errors = append(in.Errors, &ParseError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

// Fail sets Root to an ERROR item carrying the given error and also records
// it in Errors, for parsers (like the math parser) whose failure is fatal
// to the whole parse rather than just one token.
func (in *Input) Fail(code ErrorCode, format string, args ...any) Item {
	err := &ParseError{Code: code, Message: fmt.Sprintf(format, args...)}
	in.Errors = append(in.Errors, err)
	in.Root = Error(err)
	return in.Root
}
