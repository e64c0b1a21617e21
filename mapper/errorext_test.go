package mapper

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

func intMap(pairs ...any) wire.Value {
	out := make([]wire.Pair, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, wire.Pair{Key: wire.Int(int64(pairs[i].(int))), Value: pairs[i+1].(wire.Value)})
	}
	return wire.Map(out...)
}

func errorExt(t *testing.T, stack ...wire.Value) wire.Value {
	t.Helper()
	payload, err := wire.Pack(intMap(errKeyStack, wire.Array(stack...)))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	return wire.Ext(ExtError, payload)
}

func TestDecodeRemoteError(t *testing.T) {
	v := errorExt(t,
		intMap(
			errKeyType, wire.String("ClientError"),
			errKeyFile, wire.String("box.c"),
			errKeyLine, wire.Uint(42),
			errKeyMessage, wire.String("Duplicate key exists"),
			errKeyErrno, wire.Uint(0),
			errKeyCode, wire.Uint(3),
			errKeyFields, wire.StringMap([]string{"space"}, []wire.Value{wire.String("users")}),
		),
		intMap(
			errKeyType, wire.String("CustomError"),
			errKeyMessage, wire.String("root cause"),
		),
	)

	got, err := DecodeRemoteError(v)
	if err != nil {
		t.Fatalf("DecodeRemoteError: %v", err)
	}
	if got.Class != "ClientError" || got.Message != "Duplicate key exists" {
		t.Errorf("Class/Message = %q/%q", got.Class, got.Message)
	}
	if got.Code != 3 || got.Line != 42 || got.File != "box.c" {
		t.Errorf("Code=%d Line=%d File=%q", got.Code, got.Line, got.File)
	}
	if got.Str != "ClientError: Duplicate key exists" {
		t.Errorf("Str = %q", got.Str)
	}
	if got.Extra["space"] != "users" {
		t.Errorf("Extra = %v", got.Extra)
	}
	if _, ok := got.Extra["errno"]; ok {
		t.Error("zero errno should not be recorded")
	}
	if !strings.Contains(got.Stack, "CustomError: root cause") {
		t.Errorf("Stack = %q", got.Stack)
	}
}

func TestDecodeRemoteErrorViaRegistry(t *testing.T) {
	r := mustDefaults(t)
	v := errorExt(t, intMap(errKeyMessage, wire.String("boom"), errKeyErrno, wire.Uint(11)))

	got, err := Decode[*errors.RemoteCallError](r, v)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Message != "boom" || got.Extra["errno"] != int64(11) {
		t.Errorf("decoded = %+v", got)
	}

	if _, err := r.Encode(got); !stderrors.Is(err, errors.ErrConversionNotSupported) {
		t.Errorf("encoding a remote error should not be supported, got %v", err)
	}
}

func TestDecodeRemoteErrorMalformed(t *testing.T) {
	tests := []struct {
		name string
		v    wire.Value
	}{
		{"garbage payload", wire.Ext(ExtError, []byte{0xc1})},
		{"no stack", wire.Ext(ExtError, []byte{0x80})},
		{"empty stack", errorExt(t)},
		{"entry not a map", errorExt(t, wire.String("x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRemoteError(tt.v); !stderrors.Is(err, errors.ErrMalformedPayload) {
				t.Errorf("error = %v, want malformed payload", err)
			}
		})
	}
}

func TestUUIDCodec(t *testing.T) {
	c := UUIDCodec()
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	v, err := c.Encode(id)
	if err != nil {
		t.Fatal(err)
	}
	if v.ExtType() != ExtUUID || v.Len() != 16 || v.Bytes()[0] != 0xf4 {
		t.Fatalf("encoded = %v", v)
	}

	out, err := c.Decode(v)
	if err != nil || out.(uuid.UUID) != id {
		t.Errorf("Decode = %v, %v", out, err)
	}

	if _, err := c.Decode(wire.Ext(ExtUUID, []byte{1, 2})); !stderrors.Is(err, errors.ErrMalformedPayload) {
		t.Errorf("short payload error = %v", err)
	}
	if c.CanDecode(wire.Ext(ExtTimestamp, make([]byte, 16))) {
		t.Error("uuid codec must not accept ext 4")
	}
}

func TestCodecTypeMismatch(t *testing.T) {
	c := TimestampCodec()
	if _, err := c.Encode("not a time"); !stderrors.Is(err, &errors.Error{Kind: errors.KindTypeMismatch}) {
		t.Errorf("error = %v, want type mismatch", err)
	}
	if got := c.Shapes(); len(got) != 1 || got[0] != wire.ExtShape(4) {
		t.Errorf("Shapes() = %v", got)
	}
}
