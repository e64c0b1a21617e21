package call

import (
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

type singleShape[T any] struct{}

// SingleValue is the shape of a call returning one value of type T.
func SingleValue[T any]() Shape[T] {
	return singleShape[T]{}
}

func (singleShape[T]) Arity() int { return 1 }

func (singleShape[T]) Decode(r *mapper.Registry, values []wire.Value) (T, error) {
	out, err := mapper.Decode[T](r, values[0])
	if err != nil {
		var zero T
		return zero, errors.WithPath(err, slotPath(0))
	}
	return out, nil
}

type valuesShape struct {
	types []reflect.Type
}

// Values is the shape of a call returning len(types) values. A nil type
// decodes its value by shape alone.
func Values(types ...reflect.Type) Shape[[]any] {
	return valuesShape{types: types}
}

func (s valuesShape) Arity() int { return len(s.types) }

func (s valuesShape) Decode(r *mapper.Registry, values []wire.Value) ([]any, error) {
	out := make([]any, len(s.types))
	for i, t := range s.types {
		if t == nil {
			t = reflect.TypeFor[any]()
		}
		x, err := r.DecodeAs(values[i], t)
		if err != nil {
			return nil, errors.WithPath(err, slotPath(i))
		}
		out[i] = x
	}
	return out, nil
}

// Page is one batch of a paginated result plus the server's continuation
// cursor, Nil when there are no more pages.
type Page[T any] struct {
	Items  []T
	Cursor wire.Value
}

// HasMore reports whether the server returned a continuation cursor.
func (p Page[T]) HasMore() bool {
	return !p.Cursor.IsNil()
}

type pageShape[T any] struct{}

// PageOf is the shape of a call returning a sequence of T followed by a
// continuation cursor.
func PageOf[T any]() Shape[Page[T]] {
	return pageShape[T]{}
}

func (pageShape[T]) Arity() int { return 2 }

func (pageShape[T]) Decode(r *mapper.Registry, values []wire.Value) (Page[T], error) {
	items, err := mapper.Decode[[]T](r, values[0])
	if err != nil {
		return Page[T]{}, errors.WithPath(err, slotPath(0))
	}
	return Page[T]{Items: items, Cursor: values[1]}, nil
}

type structShape[T any] struct {
	fields []int
}

// Struct is the shape of a call whose values fill the exported fields of
// struct T in declaration order. Fields tagged `call:"-"` are skipped.
func Struct[T any]() Shape[T] {
	t := reflect.TypeFor[T]()
	var fields []int
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() && f.Tag.Get("call") != "-" {
				fields = append(fields, i)
			}
		}
	}
	return structShape[T]{fields: fields}
}

func (s structShape[T]) Arity() int { return len(s.fields) }

func (s structShape[T]) Decode(r *mapper.Registry, values []wire.Value) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, errors.New(errors.PhaseCall, errors.KindInvalidInput).
			GoType(rv.Type().String()).
			Detail("struct result shape needs a struct type").
			Build()
	}

	for slot, idx := range s.fields {
		field := rv.Field(idx)
		x, err := r.DecodeAs(values[slot], field.Type())
		if err != nil {
			return out, errors.WithPath(err, slotPath(slot), rv.Type().Field(idx).Name)
		}
		if x == nil {
			continue
		}
		xv := reflect.ValueOf(x)
		if !xv.Type().AssignableTo(field.Type()) {
			return out, errors.TypeMismatch(errors.PhaseCall, []string{slotPath(slot)}, field.Type().String(), xv.Type().String())
		}
		field.Set(xv)
	}
	return out, nil
}
