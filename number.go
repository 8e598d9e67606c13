package jso

import "math"

// Number is a union of int64 and float64, the representation spec.md §9
// "Number equality" recommends in place of the teacher's big.Rat-backed
// keyword values: comparisons stay exact for the (int,int) case and fall
// back to float64 only when a double is actually involved.
type Number struct {
	isInt bool
	i     int64
	d     float64
}

// NumberFromValue converts a Value of Kind Int or Double into a Number. ok
// is false for any other kind.
func NumberFromValue(v Value) (Number, bool) {
	switch v.Kind() {
	case KindInt:
		return Number{isInt: true, i: v.Int()}, true
	case KindDouble:
		return Number{d: v.Double()}, true
	default:
		return Number{}, false
	}
}

// IntNumber wraps an integer.
func IntNumber(i int64) Number { return Number{isInt: true, i: i} }

// DoubleNumber wraps a double.
func DoubleNumber(d float64) Number { return Number{d: d} }

// Float returns the number as a float64.
func (n Number) Float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.d
}

// IsInt reports whether n holds an exact integer representation.
func (n Number) IsInt() bool { return n.isInt }

// Int returns the integer payload; only meaningful when IsInt() is true.
func (n Number) Int() int64 { return n.i }

// Positive reports whether n > 0, used for the multipleOf "> 0" constraint.
func (n Number) Positive() bool {
	if n.isInt {
		return n.i > 0
	}
	return n.d > 0
}

// Cmp returns -1, 0, or 1 comparing n to m, matching the source's behaviour
// of comparing exactly when both are integers and falling back to float
// comparison otherwise (spec.md §9).
func (n Number) Cmp(m Number) int {
	if n.isInt && m.isInt {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		default:
			return 0
		}
	}
	nf, mf := n.Float(), m.Float()
	switch {
	case nf < mf:
		return -1
	case nf > mf:
		return 1
	default:
		return 0
	}
}

// IsMultipleOf reports whether n is an integer multiple of m: (int,int) by
// %, otherwise by fmod == 0, per spec.md §9.
func (n Number) IsMultipleOf(m Number) bool {
	if n.isInt && m.isInt {
		if m.i == 0 {
			return false
		}
		return n.i%m.i == 0
	}
	mf := m.Float()
	if mf == 0 {
		return false
	}
	return math.Mod(n.Float(), mf) == 0
}
