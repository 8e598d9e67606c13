package jso

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindArray
	KindObject
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindDouble:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Value is the tagged variant at the root of the data model (spec.md §3).
// The zero Value is JSON null and requires no allocation.
type Value struct {
	kind Kind
	b    bool
	i    int64
	d    float64
	str  *String
	arr  *Array
	obj  *Object
	err  *ParseError
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed 64-bit integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps an IEEE-754 binary64.
func Double(d float64) Value { return Value{kind: KindDouble, d: d} }

// Str wraps a shared reference to a String object.
func Str(s *String) Value { return Value{kind: KindString, str: s} }

// NewString allocates a fresh String-backed Value from a Go string.
func NewString(s string) Value { return Str(NewStr(s)) }

// Arr wraps a shared reference to an Array object.
func Arr(a *Array) Value { return Value{kind: KindArray, arr: a} }

// Obj wraps a shared reference to an Object object.
func Obj(o *Object) Value { return Value{kind: KindObject, obj: o} }

// ValueError wraps an owning reference to a parse error record.
func ValueError(e *ParseError) Value { return Value{kind: KindError, err: e} }

// Kind reports the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload; only meaningful when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Double returns the double payload; only meaningful when Kind() == KindDouble.
func (v Value) Double() float64 { return v.d }

// StringValue returns the underlying String object, or nil if Kind() != KindString.
func (v Value) StringValue() *String { return v.str }

// Array returns the underlying Array object, or nil if Kind() != KindArray.
func (v Value) Array() *Array { return v.arr }

// Object returns the underlying Object object, or nil if Kind() != KindObject.
func (v Value) Object() *Object { return v.obj }

// Error returns the underlying error record, or nil if Kind() != KindError.
func (v Value) Error() *ParseError { return v.err }

// AsFloat64 returns the numeric payload of an int or double value as a
// float64, and reports whether v actually held a number.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble:
		return v.d, true
	default:
		return 0, false
	}
}

// Equal implements the value-equality relation used by enum/uniqueItems
// comparisons (spec.md §3, §4.7): structural equality, order-independent for
// objects, numerically tolerant between int and double representations of the
// same mathematical value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		af, aok := a.AsFloat64()
		bf, bok := b.AsFloat64()
		if aok && bok {
			return af == bf
		}
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindDouble:
		return a.d == b.d
	case KindString:
		return a.str.Equal(b.str)
	case KindArray:
		return arrayEqual(a.arr, b.arr)
	case KindObject:
		return objectEqual(a.obj, b.obj)
	default:
		return false
	}
}

func arrayEqual(a, b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	ai, bi := a.Iter(), b.Iter()
	for {
		av, aok := ai()
		bv, bok := bi()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if !Equal(av, bv) {
			return false
		}
	}
}

func objectEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	match := true
	a.Each(func(key string, v Value) bool {
		bv, ok := b.Get(key)
		if !ok || !Equal(v, bv) {
			match = false
			return false
		}
		return true
	})
	return match
}
