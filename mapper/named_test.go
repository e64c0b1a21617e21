package mapper

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

type (
	rowID   int64
	smallID int8
	counter uint8
)

func TestNamedIntEncode(t *testing.T) {
	r := mustDefaults(t)

	tests := []struct {
		name string
		in   any
		want wire.Value
	}{
		{"signed", rowID(-42), wire.Int(-42)},
		{"small", smallID(7), wire.Int(7)},
		{"unsigned", counter(200), wire.Uint(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !wire.Equal(got, tt.want) || got.IsUnsigned() != tt.want.IsUnsigned() {
				t.Errorf("Encode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNamedIntDecode(t *testing.T) {
	r := mustDefaults(t)

	id, err := Decode[rowID](r, wire.Int(99))
	if err != nil || id != 99 {
		t.Errorf("Decode[rowID] = %v, %v", id, err)
	}
	c, err := Decode[counter](r, wire.Uint(255))
	if err != nil || c != 255 {
		t.Errorf("Decode[counter] = %v, %v", c, err)
	}

	ids, err := Decode[[]rowID](r, wire.Array(wire.Int(1), wire.Int(2)))
	if err != nil || !reflect.DeepEqual(ids, []rowID{1, 2}) {
		t.Errorf("Decode[[]rowID] = %v, %v", ids, err)
	}

	if _, err := Decode[rowID](r, wire.String("1")); !stderrors.Is(err, errors.ErrConversionNotSupported) {
		t.Errorf("string into rowID = %v", err)
	}
}

func TestNamedIntRange(t *testing.T) {
	r := mustDefaults(t)

	tests := []struct {
		name     string
		decode   func() error
		boundary any
		goType   string
	}{
		{
			name:     "above signed max",
			decode:   func() error { _, err := Decode[smallID](r, wire.Int(1000)); return err },
			boundary: int64(127),
			goType:   "mapper.smallID",
		},
		{
			name:     "below signed min",
			decode:   func() error { _, err := Decode[smallID](r, wire.Int(-1000)); return err },
			boundary: int64(-128),
			goType:   "mapper.smallID",
		},
		{
			name:     "negative into unsigned",
			decode:   func() error { _, err := Decode[counter](r, wire.Int(-1)); return err },
			boundary: uint64(0),
			goType:   "mapper.counter",
		},
		{
			name:     "above unsigned max",
			decode:   func() error { _, err := Decode[counter](r, wire.Uint(256)); return err },
			boundary: uint64(255),
			goType:   "mapper.counter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			if !stderrors.Is(err, errors.ErrRange) {
				t.Fatalf("error = %v, want range", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type = %T", err)
			}
			if e.Boundary != tt.boundary || e.GoType != tt.goType {
				t.Errorf("boundary = %v (%T), type = %q", e.Boundary, e.Boundary, e.GoType)
			}
		})
	}
}

func TestNamedIntNeedsBuiltinCodec(t *testing.T) {
	r, err := NewBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Encode(rowID(1)); !stderrors.Is(err, errors.ErrConversionNotSupported) {
		t.Errorf("Encode on empty registry = %v", err)
	}
	if _, err := Decode[rowID](r, wire.Int(1)); !stderrors.Is(err, errors.ErrConversionNotSupported) {
		t.Errorf("Decode on empty registry = %v", err)
	}
}

func TestMapEncodingIsDeterministic(t *testing.T) {
	r := mustDefaults(t)
	m := map[any]any{
		int64(1):  "signed",
		uint64(1): "unsigned",
		"1":       "text",
	}

	first, err := r.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	want, err := wire.Pack(first)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		v, err := r.Encode(m)
		if err != nil {
			t.Fatal(err)
		}
		got, err := wire.Pack(v)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(want) {
			t.Fatalf("encoding %d = %x, want %x", i, got, want)
		}
		for j, p := range v.Pairs() {
			if !wire.Equal(p.Key, first.Pairs()[j].Key) || p.Key.IsUnsigned() != first.Pairs()[j].Key.IsUnsigned() {
				t.Fatalf("encoding %d: pair %d key = %v", i, j, p.Key)
			}
		}
	}
}
