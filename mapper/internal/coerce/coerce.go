package coerce

import (
	"math"
	"reflect"
)

// MaxExactFloat is the largest integer magnitude a float64 represents exactly.
const MaxExactFloat = 1 << 53

// ToInt64 reads an integer of any kind, named types included, as int64.
// Unsigned values above math.MaxInt64 fail.
func ToInt64(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := v.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}

// ToUint64 reads a non-negative integer of any kind, named types included,
// as uint64.
func ToUint64(v reflect.Value) (uint64, bool) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := v.Int(); n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}

// IntBounds returns the inclusive range of a signed integer of the given width.
func IntBounds(bits int) (lo, hi int64) {
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	hi = 1<<(bits-1) - 1
	return -hi - 1, hi
}

// UintMax returns the largest unsigned integer of the given width.
func UintMax(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<bits - 1
}

// FitsInt reports whether n is representable as a signed integer of bits width.
func FitsInt(n int64, bits int) bool {
	lo, hi := IntBounds(bits)
	return n >= lo && n <= hi
}

// FitsUint reports whether u is representable as an unsigned integer of bits width.
func FitsUint(u uint64, bits int) bool {
	return u <= UintMax(bits)
}

// ExactFloat64 converts n to float64 when no precision is lost.
func ExactFloat64(n int64) (float64, bool) {
	if n < -MaxExactFloat || n > MaxExactFloat {
		return 0, false
	}
	return float64(n), true
}

// ExactFloat64Uint is ExactFloat64 for unsigned values.
func ExactFloat64Uint(u uint64) (float64, bool) {
	if u > MaxExactFloat {
		return 0, false
	}
	return float64(u), true
}

// ToFloat32 narrows f to float32. Finite values beyond the float32 range
// fail; NaN and infinities pass through.
func ToFloat32(f float64) (float32, bool) {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return float32(f), true
}
