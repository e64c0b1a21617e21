package mapper

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

// Timestamp extension layout: little-endian int64 seconds since the epoch,
// int32 nanoseconds, four reserved zero bytes. The server also emits an
// 8-byte seconds-only form.
const (
	ExtTimestamp int8 = 0x04

	timestampLen      = 16
	timestampShortLen = 8

	MinTimestampSeconds int64 = -185604722870400
	MaxTimestampSeconds int64 = 185480451417600
)

// MinTimestamp and MaxTimestamp are the earliest and latest instants the
// server's datetime type can hold.
var (
	MinTimestamp = time.Unix(MinTimestampSeconds, 0).UTC()
	MaxTimestamp = time.Unix(MaxTimestampSeconds, 999999999).UTC()
)

// TimestampCodec converts time.Time to and from extension 0x04. Decoded
// instants are in UTC.
func TimestampCodec() Codec[time.Time] {
	return ExtCodec(ExtTimestamp, EncodeTimestamp, DecodeTimestamp)
}

// EncodeTimestamp packs t into the 16-byte timestamp extension.
func EncodeTimestamp(t time.Time) (wire.Value, error) {
	secs := t.Unix()
	if err := checkTimestamp(errors.PhaseEncode, secs, t); err != nil {
		return wire.Value{}, err
	}
	payload := make([]byte, timestampLen)
	binary.LittleEndian.PutUint64(payload[0:8], uint64(secs))
	binary.LittleEndian.PutUint32(payload[8:12], uint32(int32(t.Nanosecond())))
	return wire.Ext(ExtTimestamp, payload), nil
}

// DecodeTimestamp unpacks a timestamp extension value.
func DecodeTimestamp(v wire.Value) (time.Time, error) {
	if v.Kind() != wire.KindExt || v.ExtType() != ExtTimestamp {
		return time.Time{}, errors.TypeMismatch(errors.PhaseDecode, nil, "time.Time", v.Shape().String())
	}

	payload := v.Bytes()
	if len(payload) != timestampLen && len(payload) != timestampShortLen {
		return time.Time{}, errors.Malformed(errors.PhaseDecode, nil, v.Shape().String(),
			fmt.Sprintf("timestamp payload is %d bytes, want %d", len(payload), timestampLen))
	}

	secs := int64(binary.LittleEndian.Uint64(payload[0:8]))
	var nanos int32
	if len(payload) == timestampLen {
		nanos = int32(binary.LittleEndian.Uint32(payload[8:12]))
	}
	if nanos < 0 || nanos >= 1e9 {
		return time.Time{}, errors.Malformed(errors.PhaseDecode, nil, v.Shape().String(),
			fmt.Sprintf("timestamp nanoseconds %d out of range", nanos))
	}
	if err := checkTimestamp(errors.PhaseDecode, secs, secs); err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, int64(nanos)).UTC(), nil
}

func checkTimestamp(phase errors.Phase, secs int64, value any) error {
	switch {
	case secs > MaxTimestampSeconds:
		return errors.New(phase, errors.KindRange).
			GoType("time.Time").
			WireType(wire.ExtShape(ExtTimestamp).String()).
			Value(value).
			Boundary(MaxTimestamp).
			Detail("dates greater than %s are not supported", MaxTimestamp.Format(time.RFC3339Nano)).
			Build()
	case secs < MinTimestampSeconds:
		return errors.New(phase, errors.KindRange).
			GoType("time.Time").
			WireType(wire.ExtShape(ExtTimestamp).String()).
			Value(value).
			Boundary(MinTimestamp).
			Detail("dates lesser than %s are not supported", MinTimestamp.Format(time.RFC3339Nano)).
			Build()
	}
	return nil
}
