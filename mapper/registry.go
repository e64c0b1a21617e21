package mapper

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

var (
	anyType       = reflect.TypeFor[any]()
	byteType      = reflect.TypeFor[byte]()
	wireValueType = reflect.TypeFor[wire.Value]()
)

// Registry is the frozen result of a Builder. It is safe for concurrent use
// and never changes after Build.
type Registry struct {
	encoders map[reflect.Type]Encoder
	decoders []Decoder      // priority order
	targets  []reflect.Type // decoders[i].Target()
	hints    [][]wire.Shape // nil when decoders[i] has no shape hint

	encCache  sync.Map // reflect.Type -> Encoder
	decCache  sync.Map // decodeKey -> []int
	compCache sync.Map // reflect.Type -> Decoder
	noCache   bool
}

type decodeKey struct {
	target reflect.Type
	shape  wire.Shape
}

func newRegistry(encoders map[reflect.Type]Encoder, decoders []Decoder, opts options) *Registry {
	r := &Registry{
		encoders: encoders,
		decoders: decoders,
		targets:  make([]reflect.Type, len(decoders)),
		hints:    make([][]wire.Shape, len(decoders)),
		noCache:  opts.noCache,
	}
	for i, d := range decoders {
		r.targets[i] = d.Target()
		if h, ok := d.(ShapeHinter); ok {
			if shapes := h.Shapes(); len(shapes) > 0 {
				r.hints[i] = shapes
			}
		}
	}
	return r
}

// ResolveEncoder returns the encoder for values of static type t. Composite
// types resolve from their element types and fail here, not at encode time,
// when an element type has no encoder. Named integer types encode like
// their predeclared kind. A nil type resolves to the Nil encoder.
func (r *Registry) ResolveEncoder(t reflect.Type) (Encoder, error) {
	return r.resolveEncoder(t, nil)
}

func (r *Registry) resolveEncoder(t reflect.Type, seen map[reflect.Type]bool) (Encoder, error) {
	if t == nil {
		return nilEncoder{}, nil
	}
	if e, ok := r.encoders[t]; ok {
		return e, nil
	}
	if !r.noCache {
		if e, ok := r.encCache.Load(t); ok {
			return e.(Encoder), nil
		}
	}
	if seen[t] {
		return lazyEncoder{r: r, t: t}, nil
	}
	if seen == nil {
		seen = make(map[reflect.Type]bool)
	}
	seen[t] = true

	e, err := r.buildEncoder(t, seen)
	if err != nil {
		return nil, err
	}
	if !r.noCache {
		r.encCache.Store(t, e)
	}
	return e, nil
}

func (r *Registry) buildEncoder(t reflect.Type, seen map[reflect.Type]bool) (Encoder, error) {
	switch t.Kind() {
	case reflect.Interface:
		return dynamicEncoder{r: r}, nil

	case reflect.Pointer:
		elem, err := r.resolveEncoder(t.Elem(), seen)
		if err != nil {
			return nil, errors.WithPath(err, "*")
		}
		return ptrEncoder{elem: elem}, nil

	case reflect.Slice, reflect.Array:
		if t.Elem() == byteType {
			return bytesEncoder{}, nil
		}
		elem, err := r.resolveEncoder(t.Elem(), seen)
		if err != nil {
			return nil, errors.WithPath(err, "[]")
		}
		return seqEncoder{elem: elem}, nil

	case reflect.Map:
		key, err := r.resolveEncoder(t.Key(), seen)
		if err != nil {
			return nil, errors.WithPath(err, "key")
		}
		val, err := r.resolveEncoder(t.Elem(), seen)
		if err != nil {
			return nil, errors.WithPath(err, "value")
		}
		return mapEncoder{key: key, val: val}, nil
	}

	if b, ok := builtinInts[t.Kind()]; ok {
		if _, ok := r.encoders[b]; ok {
			return namedIntEncoder{t: t}, nil
		}
	}
	return nil, errors.NotSupported(errors.PhaseResolve, nil, t.String(), "")
}

// ResolveDecoder returns the first decoder in priority order that accepts
// v, whatever its target type.
func (r *Registry) ResolveDecoder(v wire.Value) (Decoder, error) {
	shape := v.Shape()
	for _, i := range r.candidates(nil, shape) {
		if r.decoders[i].CanDecode(v) {
			return r.decoders[i], nil
		}
	}
	return nil, errors.NotSupported(errors.PhaseResolve, nil, "", shape.String())
}

// ResolveDecoderFor returns the first decoder in priority order whose target
// is exactly target and which accepts v. Slice, array, map and pointer
// targets without a registered decoder are assembled from their element
// types, named integer types are range-checked against their own width, and
// interface targets fall back to resolution by shape alone.
func (r *Registry) ResolveDecoderFor(target reflect.Type, v wire.Value) (Decoder, error) {
	if target == nil {
		return r.ResolveDecoder(v)
	}

	shape := v.Shape()
	for _, i := range r.candidates(target, shape) {
		if r.decoders[i].CanDecode(v) {
			return r.decoders[i], nil
		}
	}

	d, err := r.compositeDecoder(target)
	if err != nil {
		return nil, err
	}
	if d != nil && d.CanDecode(v) {
		return d, nil
	}
	return nil, errors.NotSupported(errors.PhaseResolve, nil, target.String(), shape.String())
}

func (r *Registry) candidates(target reflect.Type, shape wire.Shape) []int {
	key := decodeKey{target: target, shape: shape}
	if !r.noCache {
		if c, ok := r.decCache.Load(key); ok {
			return c.([]int)
		}
	}

	var idx []int
	for i := range r.decoders {
		if target != nil && r.targets[i] != target {
			continue
		}
		if h := r.hints[i]; h != nil && !slices.Contains(h, shape) {
			continue
		}
		idx = append(idx, i)
	}

	if !r.noCache {
		r.decCache.Store(key, idx)
	}
	return idx
}

func (r *Registry) hasDecoderFor(t reflect.Type) bool {
	return slices.Contains(r.targets, t)
}

// compositeDecoder returns a structural decoder for target, nil when target
// is not a composite kind, or an error when an element type has no decoder.
func (r *Registry) compositeDecoder(target reflect.Type) (Decoder, error) {
	if !r.noCache {
		if d, ok := r.compCache.Load(target); ok {
			return d.(Decoder), nil
		}
	}

	var d Decoder
	switch {
	case target == wireValueType:
		d = passthroughDecoder{}
	case target.Kind() == reflect.Interface:
		d = dynamicDecoder{r: r, t: target}
	case target.Kind() == reflect.Pointer,
		target.Kind() == reflect.Slice,
		target.Kind() == reflect.Array,
		target.Kind() == reflect.Map:
		if err := r.checkDecodable(target, nil); err != nil {
			return nil, err
		}
		d = containerDecoder(r, target)
	case r.hasNamedIntDecoder(target):
		d = namedIntDecoder{t: target}
	default:
		return nil, nil
	}

	if !r.noCache {
		r.compCache.Store(target, d)
	}
	return d, nil
}

// checkDecodable fails when t, or any type nested in it, can never be
// produced by this registry.
func (r *Registry) checkDecodable(t reflect.Type, seen map[reflect.Type]bool) error {
	if r.hasDecoderFor(t) || t == wireValueType || t.Kind() == reflect.Interface || seen[t] {
		return nil
	}
	if seen == nil {
		seen = make(map[reflect.Type]bool)
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Pointer:
		return errors.WithPath(r.checkDecodable(t.Elem(), seen), "*")
	case reflect.Slice, reflect.Array:
		if t.Elem() == byteType {
			return nil
		}
		return errors.WithPath(r.checkDecodable(t.Elem(), seen), "[]")
	case reflect.Map:
		if err := r.checkDecodable(t.Key(), seen); err != nil {
			return errors.WithPath(err, "key")
		}
		return errors.WithPath(r.checkDecodable(t.Elem(), seen), "value")
	}
	if r.hasNamedIntDecoder(t) {
		return nil
	}
	return errors.NotSupported(errors.PhaseResolve, nil, t.String(), "")
}

// hasNamedIntDecoder reports whether t is an integer kind whose predeclared
// type has a registered decoder.
func (r *Registry) hasNamedIntDecoder(t reflect.Type) bool {
	b, ok := builtinInts[t.Kind()]
	return ok && t != b && r.hasDecoderFor(b)
}

// Encode converts v using the encoder for its dynamic type.
func (r *Registry) Encode(v any) (wire.Value, error) {
	if v == nil {
		return wire.Nil(), nil
	}
	e, err := r.ResolveEncoder(reflect.TypeOf(v))
	if err != nil {
		return wire.Value{}, err
	}
	return e.Encode(v)
}

// EncodeAll converts each argument in order.
func (r *Registry) EncodeAll(vs ...any) ([]wire.Value, error) {
	out := make([]wire.Value, len(vs))
	for i, v := range vs {
		w, err := r.Encode(v)
		if err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
		}
		out[i] = w
	}
	return out, nil
}

// EncodeValue converts v using the encoder for the static type T, which
// matters for typed nils and interface-typed containers.
func EncodeValue[T any](r *Registry, v T) (wire.Value, error) {
	e, err := r.ResolveEncoder(reflect.TypeFor[T]())
	if err != nil {
		return wire.Value{}, err
	}
	return e.Encode(v)
}

// DecodeAs converts v to a value of type target.
func (r *Registry) DecodeAs(v wire.Value, target reflect.Type) (any, error) {
	d, err := r.ResolveDecoderFor(target, v)
	if err != nil {
		return nil, err
	}
	return d.Decode(v)
}

// Decode converts v to T.
func Decode[T any](r *Registry, v wire.Value) (T, error) {
	var zero T
	out, err := r.DecodeAs(v, reflect.TypeFor[T]())
	if err != nil || out == nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseDecode, nil, reflect.TypeFor[T]().String(), fmt.Sprintf("%T", out))
	}
	return t, nil
}
