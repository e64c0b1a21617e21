package mapper

import (
	"github.com/google/uuid"

	"github.com/nickkkcc/cartridge-go/errors"
	"github.com/nickkkcc/cartridge-go/wire"
)

// ExtUUID is the extension tag of 16-byte big-endian UUIDs.
const ExtUUID int8 = 0x02

// UUIDCodec converts uuid.UUID to and from extension 0x02.
func UUIDCodec() Codec[uuid.UUID] {
	return ExtCodec(ExtUUID, encodeUUID, decodeUUID)
}

func encodeUUID(u uuid.UUID) (wire.Value, error) {
	payload := make([]byte, len(u))
	copy(payload, u[:])
	return wire.Ext(ExtUUID, payload), nil
}

func decodeUUID(v wire.Value) (uuid.UUID, error) {
	u, err := uuid.FromBytes(v.Bytes())
	if err != nil {
		return uuid.Nil, errors.New(errors.PhaseDecode, errors.KindMalformedPayload).
			GoType("uuid.UUID").
			WireType(v.Shape().String()).
			Cause(err).
			Detail("uuid payload is %d bytes", v.Len()).
			Build()
	}
	return u, nil
}
