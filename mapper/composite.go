package mapper

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

type nilEncoder struct{}

func (nilEncoder) Encode(any) (wire.Value, error) { return wire.Nil(), nil }

// dynamicEncoder resolves by the dynamic type of each value.
type dynamicEncoder struct{ r *Registry }

func (e dynamicEncoder) Encode(v any) (wire.Value, error) { return e.r.Encode(v) }

// lazyEncoder breaks resolution cycles of recursive container types.
type lazyEncoder struct {
	r *Registry
	t reflect.Type
}

func (e lazyEncoder) Encode(v any) (wire.Value, error) {
	enc, err := e.r.ResolveEncoder(e.t)
	if err != nil {
		return wire.Value{}, err
	}
	return enc.Encode(v)
}

type ptrEncoder struct{ elem Encoder }

func (e ptrEncoder) Encode(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsNil() {
		return wire.Nil(), nil
	}
	return e.elem.Encode(rv.Elem().Interface())
}

// bytesEncoder handles named byte slices and byte arrays.
type bytesEncoder struct{}

func (bytesEncoder) Encode(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return wire.Nil(), nil
	}
	buf := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(buf), rv)
	return wire.Binary(buf), nil
}

type seqEncoder struct{ elem Encoder }

func (e seqEncoder) Encode(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return wire.Nil(), nil
	}
	items := make([]wire.Value, rv.Len())
	for i := range items {
		w, err := e.elem.Encode(rv.Index(i).Interface())
		if err != nil {
			return wire.Value{}, errors.WithPath(err, fmt.Sprintf("[%d]", i))
		}
		items[i] = w
	}
	return wire.Array(items...), nil
}

type mapEncoder struct{ key, val Encoder }

type mapEntry struct {
	pair      wire.Pair
	label     string
	key, body []byte
}

// Encode emits pairs sorted by the rendered key, then by the packed key and
// value bytes, then signed keys before unsigned ones. Equal maps always
// produce equal wire values.
func (e mapEncoder) Encode(v any) (wire.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.IsNil() {
		return wire.Nil(), nil
	}
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := e.key.Encode(iter.Key().Interface())
		if err != nil {
			return wire.Value{}, errors.WithPath(err, fmt.Sprintf("key(%v)", iter.Key()))
		}
		val, err := e.val.Encode(iter.Value().Interface())
		if err != nil {
			return wire.Value{}, errors.WithPath(err, fmt.Sprintf("[%v]", iter.Key()))
		}
		kb, err := wire.Pack(k)
		if err != nil {
			return wire.Value{}, errors.WithPath(err, fmt.Sprintf("key(%v)", iter.Key()))
		}
		vb, err := wire.Pack(val)
		if err != nil {
			return wire.Value{}, errors.WithPath(err, fmt.Sprintf("[%v]", iter.Key()))
		}
		entries = append(entries, mapEntry{
			pair:  wire.Pair{Key: k, Value: val},
			label: k.String(),
			key:   kb,
			body:  vb,
		})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := cmp.Compare(a.label, b.label); c != 0 {
			return c
		}
		if c := bytes.Compare(a.key, b.key); c != 0 {
			return c
		}
		if c := bytes.Compare(a.body, b.body); c != 0 {
			return c
		}
		return cmp.Compare(unsignedRank(a.pair.Key), unsignedRank(b.pair.Key))
	})

	pairs := make([]wire.Pair, len(entries))
	for i, en := range entries {
		pairs[i] = en.pair
	}
	return wire.Map(pairs...), nil
}

// unsignedRank orders signed before unsigned when both pack the same.
func unsignedRank(v wire.Value) int {
	if v.IsUnsigned() {
		return 1
	}
	return 0
}

type passthroughDecoder struct{}

func (passthroughDecoder) Target() reflect.Type            { return wireValueType }
func (passthroughDecoder) CanDecode(wire.Value) bool        { return true }
func (passthroughDecoder) Decode(v wire.Value) (any, error) { return v, nil }

// dynamicDecoder serves interface targets. Arrays become []any, maps
// become map[any]any, scalars use the first accepting decoder.
type dynamicDecoder struct {
	r *Registry
	t reflect.Type
}

func (d dynamicDecoder) Target() reflect.Type { return d.t }

func (d dynamicDecoder) CanDecode(v wire.Value) bool {
	switch v.Kind() {
	case wire.KindNil:
		return true
	case wire.KindArray, wire.KindMap:
		return d.t.NumMethod() == 0
	}
	dec, err := d.scalar(v)
	return err == nil && (d.t.NumMethod() == 0 || dec.Target().Implements(d.t))
}

func (d dynamicDecoder) scalar(v wire.Value) (Decoder, error) {
	if v.IsUnsigned() {
		if _, ok := v.Int64(); !ok {
			return d.r.ResolveDecoderFor(reflect.TypeFor[uint64](), v)
		}
	}
	return d.r.ResolveDecoder(v)
}

func (d dynamicDecoder) Decode(v wire.Value) (any, error) {
	switch v.Kind() {
	case wire.KindNil:
		return nil, nil

	case wire.KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, it := range items {
			x, err := d.r.DecodeAs(it, anyType)
			if err != nil {
				return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = x
		}
		return out, nil

	case wire.KindMap:
		out := make(map[any]any, v.Len())
		for _, p := range v.Pairs() {
			k, err := d.r.DecodeAs(p.Key, anyType)
			if err != nil {
				return nil, errors.WithPath(err, "key")
			}
			if k != nil && !reflect.TypeOf(k).Comparable() {
				return nil, errors.TypeMismatch(errors.PhaseDecode, nil, "map key", p.Key.Shape().String())
			}
			val, err := d.r.DecodeAs(p.Value, anyType)
			if err != nil {
				return nil, errors.WithPath(err, fmt.Sprintf("[%v]", k))
			}
			out[k] = val
		}
		return out, nil
	}

	dec, err := d.scalar(v)
	if err != nil {
		return nil, err
	}
	return dec.Decode(v)
}

// containerDecoder builds the decoder for a pointer, slice, array or map
// target.
func containerDecoder(r *Registry, t reflect.Type) Decoder {
	switch t.Kind() {
	case reflect.Pointer:
		return ptrDecoder{r: r, t: t}
	case reflect.Map:
		return mapDecoder{r: r, t: t}
	}
	return seqDecoder{r: r, t: t}
}

type ptrDecoder struct {
	r *Registry
	t reflect.Type
}

func (d ptrDecoder) Target() reflect.Type { return d.t }

func (d ptrDecoder) CanDecode(v wire.Value) bool {
	if v.IsNil() {
		return true
	}
	_, err := d.r.ResolveDecoderFor(d.t.Elem(), v)
	return err == nil
}

func (d ptrDecoder) Decode(v wire.Value) (any, error) {
	if v.IsNil() {
		return reflect.Zero(d.t).Interface(), nil
	}
	out, err := d.r.DecodeAs(v, d.t.Elem())
	if err != nil {
		return nil, err
	}
	p := reflect.New(d.t.Elem())
	if err := assign(p.Elem(), out); err != nil {
		return nil, err
	}
	return p.Interface(), nil
}

type seqDecoder struct {
	r *Registry
	t reflect.Type
}

func (d seqDecoder) Target() reflect.Type { return d.t }

func (d seqDecoder) isArray() bool { return d.t.Kind() == reflect.Array }

func (d seqDecoder) isBytes() bool { return d.t.Elem() == byteType }

func (d seqDecoder) CanDecode(v wire.Value) bool {
	switch v.Kind() {
	case wire.KindNil:
		return !d.isArray()
	case wire.KindArray:
		return !d.isArray() || v.Len() == d.t.Len()
	case wire.KindBinary:
		return d.isBytes() && (!d.isArray() || v.Len() == d.t.Len())
	}
	return false
}

func (d seqDecoder) Decode(v wire.Value) (any, error) {
	switch v.Kind() {
	case wire.KindNil:
		if !d.isArray() {
			return reflect.Zero(d.t).Interface(), nil
		}

	case wire.KindBinary:
		if d.isBytes() {
			out, err := d.alloc(v.Len())
			if err != nil {
				return nil, err
			}
			reflect.Copy(out, reflect.ValueOf(v.Bytes()))
			return out.Interface(), nil
		}

	case wire.KindArray:
		items := v.Items()
		out, err := d.alloc(len(items))
		if err != nil {
			return nil, err
		}
		for i, it := range items {
			x, err := d.r.DecodeAs(it, d.t.Elem())
			if err != nil {
				return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
			}
			if err := assign(out.Index(i), x); err != nil {
				return nil, errors.WithPath(err, fmt.Sprintf("[%d]", i))
			}
		}
		return out.Interface(), nil
	}
	return nil, errors.TypeMismatch(errors.PhaseDecode, nil, d.t.String(), v.Shape().String())
}

func (d seqDecoder) alloc(n int) (reflect.Value, error) {
	if !d.isArray() {
		return reflect.MakeSlice(d.t, n, n), nil
	}
	if n != d.t.Len() {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			GoType(d.t.String()).
			Detail("expected %d elements, got %d", d.t.Len(), n).
			Build()
	}
	return reflect.New(d.t).Elem(), nil
}

type mapDecoder struct {
	r *Registry
	t reflect.Type
}

func (d mapDecoder) Target() reflect.Type { return d.t }

func (d mapDecoder) CanDecode(v wire.Value) bool {
	return v.Kind() == wire.KindMap || v.IsNil()
}

func (d mapDecoder) Decode(v wire.Value) (any, error) {
	if v.IsNil() {
		return reflect.Zero(d.t).Interface(), nil
	}
	out := reflect.MakeMapWithSize(d.t, v.Len())
	for _, p := range v.Pairs() {
		k, err := d.r.DecodeAs(p.Key, d.t.Key())
		if err != nil {
			return nil, errors.WithPath(err, "key")
		}
		kv := reflect.New(d.t.Key()).Elem()
		if err := assign(kv, k); err != nil {
			return nil, errors.WithPath(err, "key")
		}
		if !kv.Comparable() {
			return nil, errors.TypeMismatch(errors.PhaseDecode, nil, "map key", p.Key.Shape().String())
		}
		val, err := d.r.DecodeAs(p.Value, d.t.Elem())
		if err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("[%v]", k))
		}
		vv := reflect.New(d.t.Elem()).Elem()
		if err := assign(vv, val); err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("[%v]", k))
		}
		out.SetMapIndex(kv, vv)
	}
	return out.Interface(), nil
}

func assign(dst reflect.Value, out any) error {
	if out == nil {
		dst.SetZero()
		return nil
	}
	ov := reflect.ValueOf(out)
	if ov.Type().AssignableTo(dst.Type()) {
		dst.Set(ov)
		return nil
	}
	return errors.TypeMismatch(errors.PhaseDecode, nil, dst.Type().String(), ov.Type().String())
}
