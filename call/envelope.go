package call

import (
	"fmt"
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Envelope is the ordered list of values returned by one call.
type Envelope []wire.Value

// String renders the envelope for diagnostics.
func (e Envelope) String() string {
	return wire.Array(e...).String()
}

// Shape describes how the leading values of an envelope map to a result.
type Shape[R any] interface {
	// Arity is the number of envelope values the shape consumes.
	Arity() int
	// Decode converts exactly Arity values.
	Decode(r *mapper.Registry, values []wire.Value) (R, error)
}

// Decode checks env for a reported failure and otherwise decodes it with
// shape. Any slot failing to decode fails the whole call; no partial result
// is returned.
func Decode[R any](r *mapper.Registry, env Envelope, shape Shape[R]) (R, error) {
	var zero R
	if err := DetectError(r, env); err != nil {
		return zero, err
	}

	n := shape.Arity()
	if len(env) < n {
		return zero, errors.New(errors.PhaseCall, errors.KindConversionNotSupported).
			GoType(reflect.TypeFor[R]().String()).
			WireType(fmt.Sprintf("envelope(%d)", len(env))).
			Detail("result needs %d values, envelope has %d", n, len(env)).
			Build()
	}
	return shape.Decode(r, env[:n])
}

// Single decodes a one-value result.
func Single[T any](r *mapper.Registry, env Envelope) (T, error) {
	return Decode(r, env, SingleValue[T]())
}

// Multi decodes a fixed-arity result, one target type per value.
func Multi(r *mapper.Registry, env Envelope, types ...reflect.Type) ([]any, error) {
	return Decode(r, env, Values(types...))
}

func slotPath(i int) string {
	return fmt.Sprintf("result[%d]", i)
}
