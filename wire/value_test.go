package wire

import (
	"math"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"nil", KindNil},
		{"bool", KindBool},
		{"int", KindInt},
		{"float", KindFloat},
		{"string", KindString},
		{"binary", KindBinary},
		{"array", KindArray},
		{"map", KindMap},
		{"ext", KindExt},
		{"unknown", Kind(200)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestShape(t *testing.T) {
	if got := Ext(4, nil).Shape(); got != ExtShape(4) {
		t.Errorf("Shape() = %v, want ext(4)", got)
	}
	if Ext(4, nil).Shape() == Ext(2, nil).Shape() {
		t.Error("ext shapes with different tags must differ")
	}
	if got := Int(1).Shape(); got != KindShape(KindInt) {
		t.Errorf("Shape() = %v, want int", got)
	}
	if got := ExtShape(-1).String(); got != "ext(-1)" {
		t.Errorf("String() = %q", got)
	}
	if KindArray.IsScalar() || !KindExt.IsScalar() {
		t.Error("IsScalar mismatch")
	}
}

func TestZeroValueIsNil(t *testing.T) {
	var v Value
	if !v.IsNil() || v.Kind() != KindNil {
		t.Errorf("zero Value kind = %v", v.Kind())
	}
	if !Equal(v, Nil()) {
		t.Error("zero Value should equal Nil()")
	}
}

func TestIntegerAccessors(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		i64      int64
		i64OK    bool
		u64      uint64
		u64OK    bool
		unsigned bool
	}{
		{"positive signed", Int(42), 42, true, 42, true, false},
		{"negative signed", Int(-5), -5, true, 0, false, false},
		{"small unsigned", Uint(7), 7, true, 7, true, true},
		{"huge unsigned", Uint(math.MaxUint64), 0, false, math.MaxUint64, true, true},
		{"min int64", Int(math.MinInt64), math.MinInt64, true, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := tt.v.Int64()
			if ok != tt.i64OK || (ok && i != tt.i64) {
				t.Errorf("Int64() = %d, %v; want %d, %v", i, ok, tt.i64, tt.i64OK)
			}
			u, ok := tt.v.Uint64()
			if ok != tt.u64OK || (ok && u != tt.u64) {
				t.Errorf("Uint64() = %d, %v; want %d, %v", u, ok, tt.u64, tt.u64OK)
			}
			if tt.v.IsUnsigned() != tt.unsigned {
				t.Errorf("IsUnsigned() = %v", tt.v.IsUnsigned())
			}
		})
	}

	if _, ok := String("1").Int64(); ok {
		t.Error("Int64 on string should fail")
	}
}

func TestAccessorsOnWrongKind(t *testing.T) {
	s := String("abc")
	if s.Bool() {
		t.Error("Bool on string")
	}
	if _, ok := s.Float64(); ok {
		t.Error("Float64 on string")
	}
	if s.Items() != nil || s.Pairs() != nil {
		t.Error("Items/Pairs on string")
	}
	if Int(1).Str() != "" || Int(1).Bytes() != nil {
		t.Error("Str/Bytes on int")
	}
	if !Array(Int(1)).Index(5).IsNil() {
		t.Error("Index out of range should be Nil")
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int
	}{
		{"array", Array(Int(1), Int(2)), 2},
		{"empty array", Array(), 0},
		{"map", StringMap([]string{"a"}, []Value{Nil()}), 1},
		{"string", String("héllo"), 6},
		{"binary", Binary([]byte{1, 2, 3}), 3},
		{"ext", Ext(4, make([]byte, 16)), 16},
		{"int", Int(9), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMapGet(t *testing.T) {
	m := Map(
		Pair{Key: String("code"), Value: Int(1)},
		Pair{Key: Int(3), Value: String("three")},
		Pair{Key: String("code"), Value: Int(2)},
	)

	v, ok := m.Get("code")
	if !ok {
		t.Fatal("Get(code) not found")
	}
	if n, _ := v.Int64(); n != 2 {
		t.Errorf("Get(code) = %d, want last duplicate 2", n)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should not be found")
	}

	v, ok = m.GetInt(3)
	if !ok || v.Str() != "three" {
		t.Errorf("GetInt(3) = %v, %v", v, ok)
	}
	if _, ok := Array().Get("x"); ok {
		t.Error("Get on array")
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil", Nil(), Nil(), true},
		{"signed vs unsigned same value", Int(5), Uint(5), true},
		{"signed negative vs unsigned", Int(-1), Uint(math.MaxUint64), false},
		{"int vs float", Int(1), Float(1), false},
		{"float bitwise", Float(math.NaN()), Float(math.NaN()), true},
		{"string vs binary", String("a"), Binary([]byte("a")), false},
		{"ext tag differs", Ext(4, []byte{1}), Ext(2, []byte{1}), false},
		{"ext equal", Ext(4, []byte{1}), Ext(4, []byte{1}), true},
		{"nested array", Array(Int(1), Array(String("x"))), Array(Int(1), Array(String("x"))), true},
		{"array length", Array(Int(1)), Array(Int(1), Int(2)), false},
		{"map order matters", Map(Pair{String("a"), Int(1)}, Pair{String("b"), Int(2)}), Map(Pair{String("b"), Int(2)}, Pair{String("a"), Int(1)}), false},
		{"nil binary normalized", Binary(nil), Binary([]byte{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	v := Array(
		Nil(),
		Bool(true),
		Int(-3),
		Uint(4),
		Float(1.5),
		String("hi"),
		Binary([]byte{0xab}),
		Ext(4, []byte{0x01, 0x02}),
		StringMap([]string{"k"}, []Value{Int(1)}),
	)
	want := `[nil, true, -3, 4, 1.5, "hi", bin(ab), ext(4:0102), {"k": 1}]`
	if got := v.String(); got != want {
		t.Errorf("String() = %s\nwant       %s", got, want)
	}
}
