package main

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/nickkkcc/cartridge-go/call"
	"github.com/nickkkcc/cartridge-go/mapper"
	"github.com/nickkkcc/cartridge-go/wire"
)

// decodeResult decodes env with the named shape and renders the result.
func decodeResult(r *mapper.Registry, env call.Envelope, shape string) (string, error) {
	switch shape {
	case shapeSingle:
		v, err := call.Single[any](r, env)
		if err != nil {
			return "", err
		}
		return formatGo(v), nil

	case shapeValues:
		n := len(env)
		if n >= 2 && env[n-1].IsNil() {
			n-- // trailing error slot
		}
		vs, err := call.Decode(r, env, call.Values(make([]reflect.Type, n)...))
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for i, v := range vs {
			fmt.Fprintf(&b, "[%d] %s\n", i, formatGo(v))
		}
		return strings.TrimSuffix(b.String(), "\n"), nil

	case shapePage:
		p, err := call.Decode(r, env, call.PageOf[any]())
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for i, it := range p.Items {
			fmt.Fprintf(&b, "[%d] %s\n", i, formatGo(it))
		}
		if p.HasMore() {
			fmt.Fprintf(&b, "cursor %s", p.Cursor.String())
		} else {
			b.WriteString("last page")
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("unknown shape %q", shape)
}

// formatGo renders decoded values with map keys sorted so output is stable.
func formatGo(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []any:
		parts := make([]string, len(v))
		for i, it := range v {
			parts[i] = formatGo(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[any]any:
		parts := make([]string, 0, len(v))
		for k, it := range v {
			parts = append(parts, formatGo(k)+": "+formatGo(it))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

// renderTree prints v one node per line. Known extension payloads are
// annotated with their decoded form.
func renderTree(r *mapper.Registry, env call.Envelope) string {
	var b strings.Builder
	for i, v := range env {
		writeNode(&b, r, fmt.Sprintf("[%d]", i), v, 0)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeNode(b *strings.Builder, r *mapper.Registry, label string, v wire.Value, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(label)
	b.WriteString(" ")

	switch v.Kind() {
	case wire.KindArray:
		fmt.Fprintf(b, "array(%d)\n", v.Len())
		for i, it := range v.Items() {
			writeNode(b, r, fmt.Sprintf("[%d]", i), it, depth+1)
		}
	case wire.KindMap:
		fmt.Fprintf(b, "map(%d)\n", v.Len())
		for _, p := range v.Pairs() {
			writeNode(b, r, p.Key.String()+":", p.Value, depth+1)
		}
	case wire.KindExt:
		b.WriteString(v.String())
		if note := extNote(r, v); note != "" {
			b.WriteString(" = ")
			b.WriteString(note)
		}
		b.WriteByte('\n')
	default:
		b.WriteString(v.Kind().String())
		b.WriteString(" ")
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
}

func extNote(r *mapper.Registry, v wire.Value) string {
	d, err := r.ResolveDecoder(v)
	if err != nil {
		return ""
	}
	out, err := d.Decode(v)
	if err != nil {
		return "error: " + err.Error()
	}
	if e, ok := out.(error); ok {
		return e.Error()
	}
	return formatGo(out)
}
