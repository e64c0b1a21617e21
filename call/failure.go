package call

import (
	"reflect"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

var remoteErrorType = reflect.TypeFor[*errors.RemoteCallError]()

// DetectError reports the failure carried by env, or nil for a successful
// call. A call failed when the envelope has at least two values, the first
// is Nil and the second is not.
func DetectError(r *mapper.Registry, env Envelope) error {
	if len(env) < 2 || !env[0].IsNil() || env[1].IsNil() {
		return nil
	}
	return RemoteError(r, env[1])
}

// RemoteError converts an error descriptor to *errors.RemoteCallError.
// Maps are read field by field, strings become the message and extension
// values go through the registry. The result is always a
// *errors.RemoteCallError; an extension the registry cannot decode keeps
// its rendering as the message and the conversion error under
// Extra["decode_error"].
func RemoteError(r *mapper.Registry, desc wire.Value) error {
	switch desc.Kind() {
	case wire.KindMap:
		return fromMap(r, desc)
	case wire.KindString:
		return &errors.RemoteCallError{Message: desc.Str()}
	case wire.KindExt:
		out, err := r.DecodeAs(desc, remoteErrorType)
		if err != nil {
			return &errors.RemoteCallError{
				Message: desc.String(),
				Extra:   map[string]any{"decode_error": errors.WithPath(err, "error")},
			}
		}
		if rce, ok := out.(*errors.RemoteCallError); ok && rce != nil {
			return rce
		}
	}
	return &errors.RemoteCallError{Message: desc.String()}
}

func fromMap(r *mapper.Registry, desc wire.Value) *errors.RemoteCallError {
	out := &errors.RemoteCallError{}
	for _, p := range desc.Pairs() {
		if p.Key.Kind() != wire.KindString {
			out.Extra = addExtra(r, out.Extra, p.Key.String(), p.Value)
			continue
		}
		switch key := p.Key.Str(); key {
		case "class_name", "type":
			out.Class = p.Value.Str()
		case "err", "message":
			out.Message = p.Value.Str()
		case "str":
			out.Str = p.Value.Str()
		case "file":
			out.File = p.Value.Str()
		case "stack", "trace":
			out.Stack = stackText(p.Value)
		case "code":
			if n, ok := p.Value.Int64(); ok {
				out.Code = n
			} else {
				out.Extra = addExtra(r, out.Extra, key, p.Value)
			}
		case "line":
			if n, ok := p.Value.Int64(); ok {
				out.Line = n
			}
		default:
			out.Extra = addExtra(r, out.Extra, key, p.Value)
		}
	}
	return out
}

func addExtra(r *mapper.Registry, extra map[string]any, key string, v wire.Value) map[string]any {
	if extra == nil {
		extra = make(map[string]any)
	}
	x, err := r.DecodeAs(v, reflect.TypeFor[any]())
	if err != nil {
		extra[key] = v
		return extra
	}
	extra[key] = x
	return extra
}

func stackText(v wire.Value) string {
	if v.Kind() == wire.KindString {
		return v.Str()
	}
	return v.String()
}
