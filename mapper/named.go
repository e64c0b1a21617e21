package mapper

import (
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper/internal/coerce"
	"github.com/nickkkcc/cartridge-go/wire"
)

// builtinInts maps each integer kind to its predeclared type. A named
// integer type such as `type ID int64` converts whenever the registry holds
// a codec for the predeclared type of its kind.
var builtinInts = map[reflect.Kind]reflect.Type{
	reflect.Int:    reflect.TypeFor[int](),
	reflect.Int8:   reflect.TypeFor[int8](),
	reflect.Int16:  reflect.TypeFor[int16](),
	reflect.Int32:  reflect.TypeFor[int32](),
	reflect.Int64:  reflect.TypeFor[int64](),
	reflect.Uint:   reflect.TypeFor[uint](),
	reflect.Uint8:  reflect.TypeFor[uint8](),
	reflect.Uint16: reflect.TypeFor[uint16](),
	reflect.Uint32: reflect.TypeFor[uint32](),
	reflect.Uint64: reflect.TypeFor[uint64](),
}

func isUnsignedKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

type namedIntEncoder struct {
	t reflect.Type
}

func (e namedIntEncoder) Encode(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	if isUnsignedKind(e.t.Kind()) {
		u, ok := coerce.ToUint64(rv)
		if !ok {
			return wire.Value{}, errors.Overflow(errors.PhaseEncode, nil, v, uint64(0), e.t.String())
		}
		return wire.Uint(u), nil
	}
	n, ok := coerce.ToInt64(rv)
	if !ok {
		return wire.Value{}, errors.Overflow(errors.PhaseEncode, nil, v, int64(0), e.t.String())
	}
	return wire.Int(n), nil
}

// namedIntDecoder decodes Int values into a named integer type with the
// same range checks as its predeclared counterpart.
type namedIntDecoder struct {
	t reflect.Type
}

func (d namedIntDecoder) Target() reflect.Type { return d.t }

func (d namedIntDecoder) CanDecode(v wire.Value) bool { return v.Kind() == wire.KindInt }

func (d namedIntDecoder) Decode(v wire.Value) (any, error) {
	if v.Kind() != wire.KindInt {
		return nil, errors.TypeMismatch(errors.PhaseDecode, nil, d.t.String(), v.Shape().String())
	}
	bits := d.t.Bits()
	out := reflect.New(d.t).Elem()

	if isUnsignedKind(d.t.Kind()) {
		u, ok := v.Uint64()
		if !ok {
			n, _ := v.Int64()
			return nil, errors.Overflow(errors.PhaseDecode, nil, n, uint64(0), d.t.String())
		}
		if !coerce.FitsUint(u, bits) {
			return nil, errors.Overflow(errors.PhaseDecode, nil, u, coerce.UintMax(bits), d.t.String())
		}
		out.SetUint(u)
		return out.Interface(), nil
	}

	lo, hi := coerce.IntBounds(bits)
	n, ok := v.Int64()
	if !ok {
		u, _ := v.Uint64()
		return nil, errors.Overflow(errors.PhaseDecode, nil, u, hi, d.t.String())
	}
	if !coerce.FitsInt(n, bits) {
		bound := hi
		if n < lo {
			bound = lo
		}
		return nil, errors.Overflow(errors.PhaseDecode, nil, n, bound, d.t.String())
	}
	out.SetInt(n)
	return out.Interface(), nil
}
