package mapper

import (
	"fmt"
	"strings"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

// ExtError is the extension tag of server error objects.
const ExtError int8 = 0x03

// Keys of the error extension payload.
const (
	errKeyStack = 0x00

	errKeyType    = 0x00
	errKeyFile    = 0x01
	errKeyLine    = 0x02
	errKeyMessage = 0x03
	errKeyErrno   = 0x04
	errKeyCode    = 0x05
	errKeyFields  = 0x06
)

// RemoteErrorCodec decodes extension 0x03 into *errors.RemoteCallError. It
// has no encode direction: clients never send error objects.
func RemoteErrorCodec() Codec[*errors.RemoteCallError] {
	return ExtCodec[*errors.RemoteCallError](ExtError, nil, DecodeRemoteError)
}

// DecodeRemoteError unpacks an error extension. The payload is a map whose
// stack entry lists errors from the outermost to the root cause; the first
// becomes the result and the rest are rendered into Stack.
func DecodeRemoteError(v wire.Value) (*errors.RemoteCallError, error) {
	shape := v.Shape().String()
	body, err := wire.Unpack(v.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindMalformedPayload, err, "error extension payload")
	}

	stack, ok := body.GetInt(errKeyStack)
	if !ok || stack.Kind() != wire.KindArray || stack.Len() == 0 {
		return nil, errors.Malformed(errors.PhaseDecode, nil, shape, "error extension without stack")
	}

	items := stack.Items()
	out, err := remoteErrorEntry(items[0], shape)
	if err != nil {
		return nil, err
	}

	var causes []string
	for i, it := range items[1:] {
		e, err := remoteErrorEntry(it, shape)
		if err != nil {
			return nil, errors.WithPath(err, fmt.Sprintf("stack[%d]", i+1))
		}
		causes = append(causes, strings.TrimPrefix(e.Error(), errors.RemoteCallPrefix))
	}
	out.Stack = strings.Join(causes, "\n")
	return out, nil
}

func remoteErrorEntry(entry wire.Value, shape string) (*errors.RemoteCallError, error) {
	if entry.Kind() != wire.KindMap {
		return nil, errors.Malformed(errors.PhaseDecode, nil, shape, "error stack entry is "+entry.Kind().String())
	}

	out := &errors.RemoteCallError{}
	if t, ok := entry.GetInt(errKeyType); ok {
		out.Class = t.Str()
	}
	if f, ok := entry.GetInt(errKeyFile); ok {
		out.File = f.Str()
	}
	if l, ok := entry.GetInt(errKeyLine); ok {
		out.Line, _ = l.Int64()
	}
	if m, ok := entry.GetInt(errKeyMessage); ok {
		out.Message = m.Str()
	}
	if c, ok := entry.GetInt(errKeyCode); ok {
		out.Code, _ = c.Int64()
	}
	if n, ok := entry.GetInt(errKeyErrno); ok {
		if errno, _ := n.Int64(); errno != 0 {
			out.Extra = map[string]any{"errno": errno}
		}
	}
	if fields, ok := entry.GetInt(errKeyFields); ok {
		for _, p := range fields.Pairs() {
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[p.Key.Str()] = plainValue(p.Value)
		}
	}
	if out.Class != "" && out.Message != "" {
		out.Str = out.Class + ": " + out.Message
	}
	return out, nil
}

// plainValue renders scalar wire values as Go values for error details.
func plainValue(v wire.Value) any {
	switch v.Kind() {
	case wire.KindNil:
		return nil
	case wire.KindBool:
		return v.Bool()
	case wire.KindInt:
		if n, ok := v.Int64(); ok {
			return n
		}
		u, _ := v.Uint64()
		return u
	case wire.KindFloat:
		f, _ := v.Float64()
		return f
	case wire.KindString:
		return v.Str()
	}
	return v
}
