package wire

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Value is an immutable tagged union over the wire kinds. The zero Value is
// Nil. Slices passed to constructors are retained, not copied; callers must
// not modify them afterwards, and slices returned by accessors must be
// treated as read-only.
type Value struct {
	bytes []byte
	items []Value
	pairs []Pair
	num   uint64 // int bits, uint, or float bits
	kind  Kind
	ext   int8
	flag  bool // bool payload, or unsigned marker for ints
}

// Pair is one key/value entry of a Map value.
type Pair struct {
	Key   Value
	Value Value
}

func Nil() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }

func Uint(u uint64) Value { return Value{kind: KindInt, num: u, flag: true} }

func Float(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }

func String(s string) Value { return Value{kind: KindString, bytes: []byte(s)} }

// StringBytes returns a String value holding raw bytes, which need not be
// valid UTF-8.
func StringBytes(b []byte) Value { return Value{kind: KindString, bytes: b} }

func Binary(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindBinary, bytes: b}
}

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

func Map(pairs ...Pair) Value {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Value{kind: KindMap, pairs: pairs}
}

// StringMap builds a Map from string keys in the given key order.
func StringMap(keys []string, values []Value) Value {
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: String(k), Value: values[i]}
	}
	return Map(pairs...)
}

func Ext(tag int8, payload []byte) Value {
	if payload == nil {
		payload = []byte{}
	}
	return Value{kind: KindExt, ext: tag, bytes: payload}
}

func (v Value) Kind() Kind { return v.kind }

// Shape returns the wire-shape signature of v.
func (v Value) Shape() Shape {
	if v.kind == KindExt {
		return Shape{Kind: KindExt, ExtType: v.ext}
	}
	return Shape{Kind: v.kind}
}

func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean payload; false for non-bool values.
func (v Value) Bool() bool { return v.kind == KindBool && v.flag }

// IsUnsigned reports whether an Int value was produced from an unsigned
// integer.
func (v Value) IsUnsigned() bool { return v.kind == KindInt && v.flag }

// Int64 returns the integer payload if v is an Int representable as int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	if v.flag && v.num > math.MaxInt64 {
		return 0, false
	}
	return int64(v.num), true
}

// Uint64 returns the integer payload if v is a non-negative Int.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	if !v.flag && int64(v.num) < 0 {
		return 0, false
	}
	return v.num, true
}

// Float64 returns the payload of a Float value.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return math.Float64frombits(v.num), true
}

// Str returns the payload of a String value as a Go string.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return string(v.bytes)
}

// Bytes returns the raw payload of String, Binary and Ext values.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindString, KindBinary, KindExt:
		return v.bytes
	}
	return nil
}

// ExtType returns the tag of an Ext value.
func (v Value) ExtType() int8 { return v.ext }

// Len returns the element count of arrays and maps and the byte length of
// strings, binaries and extension payloads.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindMap:
		return len(v.pairs)
	case KindString, KindBinary, KindExt:
		return len(v.bytes)
	}
	return 0
}

// Items returns the elements of an Array value.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Index returns the i-th element of an Array value, or Nil when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}
	}
	return v.items[i]
}

// Pairs returns the entries of a Map value in wire order.
func (v Value) Pairs() []Pair {
	if v.kind != KindMap {
		return nil
	}
	return v.pairs
}

// Get looks up a string key in a Map value. When a key repeats, the last
// occurrence wins.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for i := len(v.pairs) - 1; i >= 0; i-- {
		k := v.pairs[i].Key
		if k.kind == KindString && string(k.bytes) == key {
			return v.pairs[i].Value, true
		}
	}
	return Value{}, false
}

// GetInt looks up an integer key in a Map value, last occurrence wins.
func (v Value) GetInt(key int64) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for i := len(v.pairs) - 1; i >= 0; i-- {
		if n, ok := v.pairs[i].Key.Int64(); ok && n == key {
			return v.pairs[i].Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b are structurally equal. Signed and unsigned
// integers compare by numeric value; floats compare bitwise.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.flag == b.flag
	case KindInt:
		if a.flag == b.flag {
			return a.num == b.num
		}
		ai, aok := a.Int64()
		bi, bok := b.Int64()
		return aok && bok && ai == bi
	case KindFloat:
		return a.num == b.num
	case KindString, KindBinary:
		return string(a.bytes) == string(b.bytes)
	case KindExt:
		return a.ext == b.ext && string(a.bytes) == string(b.bytes)
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Value, b.pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v for debugging and the inspector CLI.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNil:
		b.WriteString("nil")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.flag))
	case KindInt:
		if v.flag {
			b.WriteString(strconv.FormatUint(v.num, 10))
		} else {
			b.WriteString(strconv.FormatInt(int64(v.num), 10))
		}
	case KindFloat:
		b.WriteString(strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(string(v.bytes)))
	case KindBinary:
		b.WriteString("bin(")
		b.WriteString(hex.EncodeToString(v.bytes))
		b.WriteByte(')')
	case KindExt:
		b.WriteString("ext(")
		b.WriteString(strconv.Itoa(int(v.ext)))
		b.WriteByte(':')
		b.WriteString(hex.EncodeToString(v.bytes))
		b.WriteByte(')')
	case KindArray:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.write(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			p.Key.write(b)
			b.WriteString(": ")
			p.Value.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("?")
	}
}
