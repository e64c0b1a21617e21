package mapper

import (
	"encoding/base64"
	"encoding/binary"
	stderrors "errors"
	"testing"
	"time"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

func TestTimestampVector(t *testing.T) {
	ts := time.Date(2022, 10, 25, 12, 3, 58, 0, time.UTC)

	v, err := EncodeTimestamp(ts)
	if err != nil {
		t.Fatalf("EncodeTimestamp: %v", err)
	}
	b, err := wire.Pack(v)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if got := base64.StdEncoding.EncodeToString(b); got != "2ASu0FdjAAAAAAAAAAAAAAAA" {
		t.Errorf("packed = %s, want 2ASu0FdjAAAAAAAAAAAAAAAA", got)
	}

	raw, _ := base64.StdEncoding.DecodeString("2ASu0FdjAAAAAAAAAAAAAAAA")
	back, err := wire.Unpack(raw)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	got, err := DecodeTimestamp(back)
	if err != nil {
		t.Fatalf("DecodeTimestamp: %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("decoded = %v, want %v", got, ts)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
	}{
		{"epoch", time.Unix(0, 0)},
		{"with nanos", time.Date(2023, 1, 2, 3, 4, 5, 123456789, time.UTC)},
		{"before epoch", time.Date(1900, 6, 1, 0, 0, 0, 500, time.UTC)},
		{"non-utc zone", time.Date(2020, 2, 29, 23, 59, 59, 1, time.FixedZone("X", 3*3600))},
		{"min", MinTimestamp},
		{"max", MaxTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := EncodeTimestamp(tt.ts)
			if err != nil {
				t.Fatalf("EncodeTimestamp: %v", err)
			}
			if v.Len() != 16 || v.ExtType() != ExtTimestamp {
				t.Fatalf("encoded = %v", v)
			}
			got, err := DecodeTimestamp(v)
			if err != nil {
				t.Fatalf("DecodeTimestamp: %v", err)
			}
			if !got.Equal(tt.ts) {
				t.Errorf("round trip = %v, want %v", got, tt.ts)
			}
			if got.Location() != time.UTC {
				t.Errorf("location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestTimestampEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		ts       time.Time
		boundary time.Time
	}{
		{"far future", time.Unix(1<<62, 0), MaxTimestamp},
		{"one second past max", time.Unix(MaxTimestampSeconds+1, 0), MaxTimestamp},
		{"one second before min", time.Unix(MinTimestampSeconds-1, 999999999), MinTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeTimestamp(tt.ts)
			if !stderrors.Is(err, errors.ErrRange) {
				t.Fatalf("error = %v, want range error", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type = %T", err)
			}
			b, ok := e.Boundary.(time.Time)
			if !ok || !b.Equal(tt.boundary) {
				t.Errorf("Boundary = %v, want %v", e.Boundary, tt.boundary)
			}
			if e.Phase != errors.PhaseEncode {
				t.Errorf("Phase = %v", e.Phase)
			}
		})
	}
}

func timestampPayload(secs int64, nanos int32) []byte {
	p := make([]byte, 16)
	binary.LittleEndian.PutUint64(p[0:8], uint64(secs))
	binary.LittleEndian.PutUint32(p[8:12], uint32(nanos))
	return p
}

func TestTimestampDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		v    wire.Value
		want error
	}{
		{"seconds past max", wire.Ext(4, timestampPayload(MaxTimestampSeconds+1, 0)), errors.ErrRange},
		{"seconds before min", wire.Ext(4, timestampPayload(MinTimestampSeconds-1, 0)), errors.ErrRange},
		{"short payload", wire.Ext(4, []byte{1, 2, 3}), errors.ErrMalformedPayload},
		{"long payload", wire.Ext(4, make([]byte, 17)), errors.ErrMalformedPayload},
		{"nanos too large", wire.Ext(4, timestampPayload(0, 1e9)), errors.ErrMalformedPayload},
		{"negative nanos", wire.Ext(4, timestampPayload(0, -1)), errors.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTimestamp(tt.v)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTimestampShortForm(t *testing.T) {
	p := make([]byte, 8)
	binary.LittleEndian.PutUint64(p, 1666699438)

	got, err := DecodeTimestamp(wire.Ext(4, p))
	if err != nil {
		t.Fatalf("DecodeTimestamp: %v", err)
	}
	if got.Unix() != 1666699438 || got.Nanosecond() != 0 {
		t.Errorf("decoded = %v", got)
	}
}

func TestTimestampReservedBytesIgnored(t *testing.T) {
	p := timestampPayload(10, 5)
	p[12], p[13] = 0x3c, 0x00 // tzoffset
	got, err := DecodeTimestamp(wire.Ext(4, p))
	if err != nil {
		t.Fatalf("DecodeTimestamp: %v", err)
	}
	if !got.Equal(time.Unix(10, 5)) {
		t.Errorf("decoded = %v", got)
	}
}

func TestTimestampCanDecode(t *testing.T) {
	c := TimestampCodec()
	tests := []struct {
		name string
		v    wire.Value
		want bool
	}{
		{"ext 4", wire.Ext(4, make([]byte, 16)), true},
		{"ext 4 malformed still accepted", wire.Ext(4, []byte{1}), true},
		{"ext 2", wire.Ext(2, make([]byte, 16)), false},
		{"ext 3", wire.Ext(3, make([]byte, 16)), false},
		{"int", wire.Int(1666699438), false},
		{"binary", wire.Binary(make([]byte, 16)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CanDecode(tt.v); got != tt.want {
				t.Errorf("CanDecode(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
