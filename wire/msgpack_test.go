package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	stderrors "errors"
	"math"
	"testing"

	"github.com/nickkkcc/cartridge-go/errors"
)

func TestPackExtTimestampVector(t *testing.T) {
	payload := make([]byte, 16)
	binary.LittleEndian.PutUint64(payload[0:8], uint64(1666699438))

	b, err := Pack(Ext(4, payload))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if got := base64.StdEncoding.EncodeToString(b); got != "2ASu0FdjAAAAAAAAAAAAAAAA" {
		t.Errorf("Pack = %s, want 2ASu0FdjAAAAAAAAAAAAAAAA", got)
	}
	if b[0] != 0xd8 || b[1] != 0x04 {
		t.Errorf("header = % x, want fixext16 tag 4", b[:2])
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"nil", Nil()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"fixint", Int(7)},
		{"negative fixint", Int(-1)},
		{"int16", Int(-200)},
		{"min int64", Int(math.MinInt64)},
		{"max uint64", Uint(math.MaxUint64)},
		{"float", Float(3.25)},
		{"empty string", String("")},
		{"unicode string", String("привет")},
		{"long string", String(string(bytes.Repeat([]byte("x"), 70000)))},
		{"empty binary", Binary(nil)},
		{"binary", Binary([]byte{0, 1, 2, 255})},
		{"ext fixext1", Ext(1, []byte{9})},
		{"ext odd length", Ext(2, []byte{1, 2, 3})},
		{"ext negative tag", Ext(-1, make([]byte, 12))},
		{"empty array", Array()},
		{"nested", Array(Int(1), Array(String("a"), Nil()), StringMap([]string{"k"}, []Value{Float(0.5)}))},
		{"map with int keys", Map(Pair{Int(0), String("zero")}, Pair{Int(1), Bool(true)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Pack(tt.v)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			got, err := Unpack(b)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if !Equal(got, tt.v) {
				t.Errorf("round trip = %v, want %v", got, tt.v)
			}
		})
	}
}

func TestCompactIntegers(t *testing.T) {
	tests := []struct {
		v    Value
		size int
	}{
		{Int(0), 1},
		{Int(127), 1},
		{Int(-32), 1},
		{Int(128), 2},
		{Int(-33), 2},
		{Uint(70000), 5},
		{Int(math.MaxInt64), 9},
	}
	for _, tt := range tests {
		b, err := Pack(tt.v)
		if err != nil {
			t.Fatalf("Pack(%v): %v", tt.v, err)
		}
		if len(b) != tt.size {
			t.Errorf("Pack(%v) = %d bytes, want %d", tt.v, len(b), tt.size)
		}
	}
}

func TestUnpackErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated array", []byte{0x92, 0x01}},
		{"truncated ext", []byte{0xd8, 0x04, 0x00}},
		{"trailing bytes", []byte{0x01, 0x02}},
		{"reserved code", []byte{0xc1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpack(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrMalformedPayload) {
				t.Errorf("error = %v, want malformed payload", err)
			}
		})
	}
}

func TestUnpackDepthLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0x91}, MaxDepth+2)
	data = append(data, 0xc0)
	_, err := Unpack(data)
	if !stderrors.Is(err, errors.ErrMalformedPayload) {
		t.Errorf("error = %v, want malformed payload", err)
	}
}

func TestUnpackAll(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, v := range []Value{Nil(), String("boom"), Int(3)} {
		if err := enc.Encode(v); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	got, err := UnpackAll(buf.Bytes())
	if err != nil {
		t.Fatalf("UnpackAll: %v", err)
	}
	if len(got) != 3 || !got[0].IsNil() || got[1].Str() != "boom" {
		t.Errorf("UnpackAll = %v", got)
	}

	if _, err := UnpackAll([]byte{0x01, 0x92}); err == nil {
		t.Error("UnpackAll should fail on truncated tail")
	}
}
