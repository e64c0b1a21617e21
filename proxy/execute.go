package proxy

import (
	"context"

	"github.com/nickkkcc/cartridge-go/call"
	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Caller performs one remote call and returns its raw result values.
// Implementations own the connection, retries and deadlines.
type Caller interface {
	Call(ctx context.Context, function string, args []wire.Value) (call.Envelope, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, function string, args []wire.Value) (call.Envelope, error)

func (f CallerFunc) Call(ctx context.Context, function string, args []wire.Value) (call.Envelope, error) {
	return f(ctx, function, args)
}

// Execute runs op through c and decodes the result with shape. Transport
// errors are returned unchanged.
func Execute[R any](ctx context.Context, c Caller, r *mapper.Registry, op Operation, shape call.Shape[R]) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	env, err := c.Call(ctx, op.Function, op.Args)
	if err != nil {
		return zero, err
	}
	out, err := call.Decode(r, env, shape)
	if err != nil {
		return zero, errors.WithPath(err, op.Function)
	}
	return out, nil
}
