package mapper

import (
	"math"
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper/internal/coerce"
	"github.com/nickkkcc/cartridge-go/wire"
)

// installDefaults registers the default codec set in priority order. Among
// codecs accepting the same shape the first one listed wins shape-only
// resolution, so int64, float64, string and []byte come first in their
// families.
func installDefaults(b *Builder) {
	b.registerDefaultEncoder(wireValueType, passthroughEncoder{})
	b.registerDefaultDecoder(nilDecoder{})

	registerDefault(b, KindCodec(encodeBool, decodeBool, wire.KindBool))

	registerDefault(b, signedCodec[int64]())
	registerDefault(b, signedCodec[int]())
	registerDefault(b, signedCodec[int32]())
	registerDefault(b, signedCodec[int16]())
	registerDefault(b, signedCodec[int8]())

	registerDefault(b, unsignedCodec[uint64]())
	registerDefault(b, unsignedCodec[uint]())
	registerDefault(b, unsignedCodec[uint32]())
	registerDefault(b, unsignedCodec[uint16]())
	registerDefault(b, unsignedCodec[uint8]())

	registerDefault(b, KindCodec(encodeFloat64, decodeFloat64, wire.KindFloat, wire.KindInt))
	registerDefault(b, KindCodec(encodeFloat32, decodeFloat32, wire.KindFloat))

	registerDefault(b, KindCodec(encodeString, decodeString, wire.KindString))
	registerDefault(b, KindCodec(encodeBytes, decodeBytes, wire.KindBinary))

	registerDefault(b, TimestampCodec())
	registerDefault(b, UUIDCodec())
	registerDefault(b, RemoteErrorCodec())
}

type passthroughEncoder struct{}

func (passthroughEncoder) Encode(v any) (wire.Value, error) {
	return v.(wire.Value), nil
}

// nilDecoder decodes Nil to an untyped nil.
type nilDecoder struct{}

func (nilDecoder) Target() reflect.Type           { return anyType }
func (nilDecoder) CanDecode(v wire.Value) bool    { return v.IsNil() }
func (nilDecoder) Decode(wire.Value) (any, error) { return nil, nil }
func (nilDecoder) Shapes() []wire.Shape           { return []wire.Shape{wire.KindShape(wire.KindNil)} }

func encodeBool(b bool) (wire.Value, error) { return wire.Bool(b), nil }

func decodeBool(v wire.Value) (bool, error) { return v.Bool(), nil }

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func signedCodec[T signed]() Codec[T] {
	t := reflect.TypeFor[T]()
	bits := t.Bits()
	encode := func(n T) (wire.Value, error) {
		return wire.Int(int64(n)), nil
	}
	decode := func(v wire.Value) (T, error) {
		n, ok := v.Int64()
		if !ok {
			u, _ := v.Uint64()
			_, hi := coerce.IntBounds(bits)
			return 0, errors.OutOfRange(errors.PhaseDecode, nil, u, hi, "value "+v.String()+" overflows "+t.String())
		}
		if !coerce.FitsInt(n, bits) {
			lo, hi := coerce.IntBounds(bits)
			bound := hi
			if n < lo {
				bound = lo
			}
			return 0, errors.OutOfRange(errors.PhaseDecode, nil, n, bound, "value "+v.String()+" overflows "+t.String())
		}
		return T(n), nil
	}
	return KindCodec(encode, decode, wire.KindInt)
}

func unsignedCodec[T unsigned]() Codec[T] {
	t := reflect.TypeFor[T]()
	bits := t.Bits()
	encode := func(n T) (wire.Value, error) {
		return wire.Uint(uint64(n)), nil
	}
	decode := func(v wire.Value) (T, error) {
		u, ok := v.Uint64()
		if !ok {
			n, _ := v.Int64()
			return 0, errors.OutOfRange(errors.PhaseDecode, nil, n, uint64(0), "negative value "+v.String()+" for "+t.String())
		}
		if !coerce.FitsUint(u, bits) {
			return 0, errors.OutOfRange(errors.PhaseDecode, nil, u, coerce.UintMax(bits), "value "+v.String()+" overflows "+t.String())
		}
		return T(u), nil
	}
	return KindCodec(encode, decode, wire.KindInt)
}

func encodeFloat64(f float64) (wire.Value, error) { return wire.Float(f), nil }

// decodeFloat64 widens integers only when the conversion is exact.
func decodeFloat64(v wire.Value) (float64, error) {
	if f, ok := v.Float64(); ok {
		return f, nil
	}
	if n, ok := v.Int64(); ok {
		if f, ok := coerce.ExactFloat64(n); ok {
			return f, nil
		}
		bound := int64(coerce.MaxExactFloat)
		if n < 0 {
			bound = -bound
		}
		return 0, errors.OutOfRange(errors.PhaseDecode, nil, n, bound, "integer "+v.String()+" is not exactly representable as float64")
	}
	u, _ := v.Uint64()
	if f, ok := coerce.ExactFloat64Uint(u); ok {
		return f, nil
	}
	return 0, errors.OutOfRange(errors.PhaseDecode, nil, u, uint64(coerce.MaxExactFloat), "integer "+v.String()+" is not exactly representable as float64")
}

func encodeFloat32(f float32) (wire.Value, error) { return wire.Float(float64(f)), nil }

func decodeFloat32(v wire.Value) (float32, error) {
	f, _ := v.Float64()
	out, ok := coerce.ToFloat32(f)
	if !ok {
		return 0, errors.OutOfRange(errors.PhaseDecode, nil, f, math.Copysign(math.MaxFloat32, f), "value "+v.String()+" overflows float32")
	}
	return out, nil
}

func encodeString(s string) (wire.Value, error) { return wire.String(s), nil }

func decodeString(v wire.Value) (string, error) { return v.Str(), nil }

func encodeBytes(b []byte) (wire.Value, error) {
	if b == nil {
		return wire.Nil(), nil
	}
	return wire.Binary(b), nil
}

func decodeBytes(v wire.Value) ([]byte, error) {
	src := v.Bytes()
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}
