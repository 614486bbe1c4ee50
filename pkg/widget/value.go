package widget

import (
	"fmt"
	"reflect"
	"strconv"
)

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	// KindOpaque holds a host-language object the core never inspects.
	KindOpaque
)

// String returns the kind name as scripts would report it.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOpaque:
		return "opaque"
	default:
		return "nil"
	}
}

// Value is a tagged union used for frame attributes and handler arguments.
// The zero Value is nil.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	o    any
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Opaque wraps a host object. A nil object yields the nil value.
func Opaque(o any) Value {
	if o == nil {
		return Value{}
	}
	return Value{kind: KindOpaque, o: o}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNil reports whether v is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Truthy follows script semantics: only nil and false are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.b
	default:
		return true
	}
}

// AsBool returns the boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v holds one.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string and whether v holds one.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsOpaque returns the host object and whether v holds one.
func (v Value) AsOpaque() (any, bool) { return v.o, v.kind == KindOpaque }

// Equal reports whether two values hold the same variant and payload.
// Opaque values compare with ==; objects that are not comparable (slices,
// maps, funcs) are never equal, so storing one always counts as a change.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindOpaque:
		return opaqueEqual(v.o, o.o)
	default:
		return true
	}
}

func opaqueEqual(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a == nil {
		return true
	}
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindString:
		return v.s
	case KindOpaque:
		return fmt.Sprintf("<%T>", v.o)
	default:
		return "nil"
	}
}
