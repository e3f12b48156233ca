// Package core implements the unified value representation shared by every
// parser in the toolchain: tagged items, the arena that owns their backing
// memory, the name pool used to intern identifiers, and the growable string
// buffer every tokenizer accumulates text into.
package core

import "fmt"

// Tag identifies the kind of value a payload holds. It occupies the role the
// design calls "the high byte of a tagged item" — here it is simply the
// discriminant of core.Item, since Go gives us a real sum type instead of
// pointer bit-stealing.
type Tag uint8

const (
	TagNull Tag = iota
	TagBool
	TagInt
	TagFloat
	TagString
	TagSymbol
	TagArray
	TagMap
	TagElement
	TagType
	TagError
)

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagString:
		return "string"
	case TagSymbol:
		return "symbol"
	case TagArray:
		return "array"
	case TagMap:
		return "map"
	case TagElement:
		return "element"
	case TagType:
		return "type"
	case TagError:
		return "error"
	default:
		return "unknown"
	}
}

// Item is the tagged value every parser in the toolchain produces and every
// consumer walks. Tag selects which field of the payload is meaningful;
// reading the wrong field for a given tag is a programming error, not a
// recoverable one, so accessors panic rather than silently returning a zero
// value (callers are expected to switch on Tag first, as the format
// dispatcher and validator both do).
type Item struct {
	Tag   Tag
	i     int64  // TagInt, TagBool (0/1)
	f     *float64 // TagFloat
	str   *String  // TagString, TagSymbol
	arr   *List    // TagArray
	m     *Map     // TagMap
	elem  *Element // TagElement
	typ   *Type    // TagType
	errv  *ParseError
}

// Null is the canonical "no value produced, not a failure" item (§7).
var Null = Item{Tag: TagNull}

// Error wraps a ParseError as an ITEM_ERROR sentinel: "this production
// failed." Distinct from Null by tag, never by a nil check, matching §3.1's
// invariant that ERROR is "distinguishable from NULL."
func Error(err *ParseError) Item {
	return Item{Tag: TagError, errv: err}
}

// Errorf builds an ad-hoc ParseError and wraps it as an ITEM_ERROR.
func Errorf(code ErrorCode, format string, args ...any) Item {
	return Error(&ParseError{Code: code, Message: fmt.Sprintf(format, args...)})
}

func Bool(b bool) Item {
	if b {
		return Item{Tag: TagBool, i: 1}
	}
	return Item{Tag: TagBool, i: 0}
}

func Int(v int64) Item { return Item{Tag: TagInt, i: v} }

// Float allocates the float payload in the given arena, per §3.1 ("FLOAT:
// pointer into arena to an IEEE-754 double").
func Float(a *Arena, v float64) Item {
	p := a.allocFloat()
	*p = v
	return Item{Tag: TagFloat, f: p}
}

func StringItem(s *String) Item { return Item{Tag: TagString, str: s} }
func SymbolItem(s *String) Item { return Item{Tag: TagSymbol, str: s} }
func ArrayItem(l *List) Item    { return Item{Tag: TagArray, arr: l} }
func MapItem(m *Map) Item       { return Item{Tag: TagMap, m: m} }
func ElementItem(e *Element) Item { return Item{Tag: TagElement, elem: e} }
func TypeItem(t *Type) Item     { return Item{Tag: TagType, typ: t} }

func (it Item) IsNull() bool  { return it.Tag == TagNull }
func (it Item) IsError() bool { return it.Tag == TagError }

func (it Item) Bool() bool {
	it.mustTag(TagBool)
	return it.i != 0
}

func (it Item) Int() int64 {
	it.mustTag(TagInt)
	return it.i
}

func (it Item) Float() float64 {
	it.mustTag(TagFloat)
	return *it.f
}

func (it Item) String_() *String {
	if it.Tag != TagString && it.Tag != TagSymbol {
		panic(fmt.Sprintf("core: Item.String_ called on %s item", it.Tag))
	}
	return it.str
}

func (it Item) Array() *List {
	it.mustTag(TagArray)
	return it.arr
}

func (it Item) Map() *Map {
	it.mustTag(TagMap)
	return it.m
}

func (it Item) Element() *Element {
	it.mustTag(TagElement)
	return it.elem
}

func (it Item) Type_() *Type {
	it.mustTag(TagType)
	return it.typ
}

func (it Item) Err() *ParseError {
	it.mustTag(TagError)
	return it.errv
}

func (it Item) mustTag(want Tag) {
	if it.Tag != want {
		panic(fmt.Sprintf("core: Item accessor expected %s, got %s", want, it.Tag))
	}
}
