package proxy

import (
	"fmt"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

// CRUD router functions.
const (
	FuncInsert  = "crud.insert"
	FuncReplace = "crud.replace"
	FuncGet     = "crud.get"
	FuncDelete  = "crud.delete"
	FuncSelect  = "crud.select"
)

// Operation is a fully encoded remote call.
type Operation struct {
	Function string
	Args     []wire.Value
}

func (o Operation) String() string {
	return o.Function + wire.Array(o.Args...).String()
}

// Condition is one select predicate, sent as [operator, field, value].
type Condition struct {
	Operator string
	Field    string
	Value    any
}

// Select predicate operators.
const (
	OpEQ = "=="
	OpLT = "<"
	OpLE = "<="
	OpGT = ">"
	OpGE = ">="
)

func Eq(field string, value any) Condition { return Condition{OpEQ, field, value} }
func Lt(field string, value any) Condition { return Condition{OpLT, field, value} }
func Le(field string, value any) Condition { return Condition{OpLE, field, value} }
func Gt(field string, value any) Condition { return Condition{OpGT, field, value} }
func Ge(field string, value any) Condition { return Condition{OpGE, field, value} }

// Insert builds a crud.insert call for tuple.
func Insert(r *mapper.Registry, space string, tuple any, opts *Options) (Operation, error) {
	return spaceOp(r, FuncInsert, space, tuple, opts)
}

// Replace builds a crud.replace call for tuple.
func Replace(r *mapper.Registry, space string, tuple any, opts *Options) (Operation, error) {
	return spaceOp(r, FuncReplace, space, tuple, opts)
}

// Get builds a crud.get call by primary key.
func Get(r *mapper.Registry, space string, key any, opts *Options) (Operation, error) {
	return spaceOp(r, FuncGet, space, key, opts)
}

// Delete builds a crud.delete call by primary key.
func Delete(r *mapper.Registry, space string, key any, opts *Options) (Operation, error) {
	return spaceOp(r, FuncDelete, space, key, opts)
}

// Select builds a crud.select call. An empty condition list scans the
// whole space.
func Select(r *mapper.Registry, space string, conditions []Condition, opts *SelectOptions) (Operation, error) {
	conds := make([]wire.Value, len(conditions))
	for i, c := range conditions {
		if c.Operator == "" || c.Field == "" {
			return Operation{}, errors.InvalidInput(errors.PhaseConfig,
				fmt.Sprintf("condition %d needs an operator and a field", i))
		}
		v, err := r.Encode(c.Value)
		if err != nil {
			return Operation{}, errors.WithPath(err, fmt.Sprintf("conditions[%d]", i))
		}
		conds[i] = wire.Array(wire.String(c.Operator), wire.String(c.Field), v)
	}

	var o *Options
	if opts != nil {
		o = &opts.Options
	}
	return build(r, FuncSelect, space, wire.Array(conds...), o)
}

// CallFunction builds a call of an arbitrary function with positional
// arguments.
func CallFunction(r *mapper.Registry, fn string, args ...any) (Operation, error) {
	if fn == "" {
		return Operation{}, errors.InvalidInput(errors.PhaseConfig, "function name should not be empty")
	}
	vs, err := r.EncodeAll(args...)
	if err != nil {
		return Operation{}, errors.WithPath(err, "args")
	}
	return Operation{Function: fn, Args: vs}, nil
}

func spaceOp(r *mapper.Registry, fn, space string, payload any, opts *Options) (Operation, error) {
	v, err := r.Encode(payload)
	if err != nil {
		return Operation{}, errors.WithPath(err, "tuple")
	}
	return build(r, fn, space, v, opts)
}

func build(r *mapper.Registry, fn, space string, payload wire.Value, opts *Options) (Operation, error) {
	if space == "" {
		return Operation{}, errors.InvalidInput(errors.PhaseConfig, "space name should not be empty")
	}
	o, err := opts.Encode(r)
	if err != nil {
		return Operation{}, err
	}
	return Operation{
		Function: fn,
		Args:     []wire.Value{wire.String(space), payload, o},
	}, nil
}
