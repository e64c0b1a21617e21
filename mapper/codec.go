package mapper

import (
	"fmt"
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Encoder converts a native value to a wire value.
type Encoder interface {
	Encode(v any) (wire.Value, error)
}

// Decoder converts wire values to one native target type.
//
// CanDecode must be a pure function of the wire value; it is consulted in
// priority order and the first decoder that accepts a value wins. Decode is
// only called on values CanDecode accepted, and still reports RangeError or
// MalformedPayload for values whose content is unusable.
type Decoder interface {
	Target() reflect.Type
	CanDecode(v wire.Value) bool
	Decode(v wire.Value) (any, error)
}

// ShapeHinter is implemented by decoders that accept only a known set of
// wire shapes. The registry uses the hint to shortlist candidates; decoders
// without a hint are tried for every shape. An extension shape in the hint
// also declares ownership of that tag.
type ShapeHinter interface {
	Shapes() []wire.Shape
}

// Codec pairs both directions of the conversion for one native type T.
// Codecs are plain values and safe to share between registries.
type Codec[T any] struct {
	encode  func(T) (wire.Value, error)
	decode  func(wire.Value) (T, error)
	accepts func(wire.Value) bool
	shapes  []wire.Shape
}

// NewCodec builds a codec from its three functions. encode may be nil for a
// decode-only codec.
func NewCodec[T any](
	encode func(T) (wire.Value, error),
	accepts func(wire.Value) bool,
	decode func(wire.Value) (T, error),
	shapes ...wire.Shape,
) Codec[T] {
	return Codec[T]{encode: encode, accepts: accepts, decode: decode, shapes: shapes}
}

// KindCodec builds a codec accepting every value of the given wire kinds.
func KindCodec[T any](encode func(T) (wire.Value, error), decode func(wire.Value) (T, error), kinds ...wire.Kind) Codec[T] {
	shapes := make([]wire.Shape, len(kinds))
	for i, k := range kinds {
		shapes[i] = wire.KindShape(k)
	}
	accepts := func(v wire.Value) bool {
		for _, k := range kinds {
			if v.Kind() == k {
				return true
			}
		}
		return false
	}
	return NewCodec(encode, accepts, decode, shapes...)
}

// ExtCodec builds a codec for the extension type with the given tag.
func ExtCodec[T any](tag int8, encode func(T) (wire.Value, error), decode func(wire.Value) (T, error)) Codec[T] {
	accepts := func(v wire.Value) bool {
		return v.Kind() == wire.KindExt && v.ExtType() == tag
	}
	return NewCodec(encode, accepts, decode, wire.ExtShape(tag))
}

func (c Codec[T]) Target() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c Codec[T]) CanDecode(v wire.Value) bool {
	return c.accepts != nil && c.accepts(v)
}

func (c Codec[T]) Decode(v wire.Value) (any, error) {
	if c.decode == nil {
		return nil, errors.NotSupported(errors.PhaseDecode, nil, c.Target().String(), v.Shape().String())
	}
	return c.decode(v)
}

func (c Codec[T]) Encode(v any) (wire.Value, error) {
	if c.encode == nil {
		return wire.Value{}, errors.NotSupported(errors.PhaseEncode, nil, c.Target().String(), "")
	}
	t, ok := v.(T)
	if !ok {
		return wire.Value{}, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
			GoType(fmt.Sprintf("%T", v)).
			Detail("codec expects %s", c.Target()).
			Build()
	}
	return c.encode(t)
}

func (c Codec[T]) Shapes() []wire.Shape {
	return c.shapes
}

// CanEncode reports whether the codec has an encode direction.
func (c Codec[T]) CanEncode() bool {
	return c.encode != nil
}
