package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/nickkkcc/cartridge-go/errors"
)

// Safety limits for decoding untrusted input.
const (
	MaxDepth        = 128
	MaxContainerLen = 1 << 24
)

// Encoder writes Values to a MessagePack stream.
type Encoder struct {
	w   io.Writer
	enc *msgpack.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, enc: msgpack.NewEncoder(w)}
}

func (e *Encoder) Encode(v Value) error {
	switch v.kind {
	case KindNil:
		return e.enc.EncodeNil()
	case KindBool:
		return e.enc.EncodeBool(v.flag)
	case KindInt:
		if v.flag {
			return e.enc.EncodeUint(v.num)
		}
		return e.enc.EncodeInt(int64(v.num))
	case KindFloat:
		f, _ := v.Float64()
		return e.enc.EncodeFloat64(f)
	case KindString:
		return e.enc.EncodeString(string(v.bytes))
	case KindBinary:
		b := v.bytes
		if b == nil {
			b = []byte{}
		}
		return e.enc.EncodeBytes(b)
	case KindExt:
		if err := e.enc.EncodeExtHeader(v.ext, len(v.bytes)); err != nil {
			return err
		}
		_, err := e.w.Write(v.bytes)
		return err
	case KindArray:
		if err := e.enc.EncodeArrayLen(len(v.items)); err != nil {
			return err
		}
		for _, it := range v.items {
			if err := e.Encode(it); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := e.enc.EncodeMapLen(len(v.pairs)); err != nil {
			return err
		}
		for _, p := range v.pairs {
			if err := e.Encode(p.Key); err != nil {
				return err
			}
			if err := e.Encode(p.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.New(errors.PhaseEncode, errors.KindConversionNotSupported).
		WireType(v.kind.String()).
		Detail("unknown wire kind %d", v.kind).
		Build()
}

// Decoder reads Values from a MessagePack stream.
type Decoder struct {
	dec *msgpack.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

// Decode reads the next complete value. It returns io.EOF at a clean end of
// stream.
func (d *Decoder) Decode() (Value, error) {
	return d.decode(0)
}

func (d *Decoder) decode(depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, errors.Malformed(errors.PhaseDecode, nil, "", fmt.Sprintf("nesting deeper than %d", MaxDepth))
	}

	c, err := d.dec.PeekCode()
	if err != nil {
		return Value{}, err
	}

	switch {
	case c == msgpcode.Nil:
		return Value{}, d.dec.DecodeNil()

	case c == msgpcode.False || c == msgpcode.True:
		b, err := d.dec.DecodeBool()
		return Bool(b), err

	case c <= msgpcode.PosFixedNumHigh,
		c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		u, err := d.dec.DecodeUint64()
		return Uint(u), err

	case c >= msgpcode.NegFixedNumLow,
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		i, err := d.dec.DecodeInt64()
		return Int(i), err

	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := d.dec.DecodeFloat64()
		return Float(f), err

	case msgpcode.IsString(c):
		s, err := d.dec.DecodeString()
		return String(s), err

	case msgpcode.IsBin(c):
		b, err := d.dec.DecodeBytes()
		return Binary(b), err

	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := d.dec.DecodeArrayLen()
		if err != nil {
			return Value{}, err
		}
		if n > MaxContainerLen {
			return Value{}, errors.Malformed(errors.PhaseDecode, nil, "array", fmt.Sprintf("length %d exceeds limit %d", n, MaxContainerLen))
		}
		items := make([]Value, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			it, err := d.decode(depth + 1)
			if err != nil {
				return Value{}, eofAsMalformed(err)
			}
			items = append(items, it)
		}
		return Array(items...), nil

	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := d.dec.DecodeMapLen()
		if err != nil {
			return Value{}, err
		}
		if n > MaxContainerLen {
			return Value{}, errors.Malformed(errors.PhaseDecode, nil, "map", fmt.Sprintf("length %d exceeds limit %d", n, MaxContainerLen))
		}
		pairs := make([]Pair, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			k, err := d.decode(depth + 1)
			if err != nil {
				return Value{}, eofAsMalformed(err)
			}
			val, err := d.decode(depth + 1)
			if err != nil {
				return Value{}, eofAsMalformed(err)
			}
			pairs = append(pairs, Pair{Key: k, Value: val})
		}
		return Map(pairs...), nil

	case msgpcode.IsExt(c):
		tag, n, err := d.dec.DecodeExtHeader()
		if err != nil {
			return Value{}, err
		}
		if n > MaxContainerLen {
			return Value{}, errors.Malformed(errors.PhaseDecode, nil, "ext", fmt.Sprintf("payload length %d exceeds limit %d", n, MaxContainerLen))
		}
		payload := make([]byte, n)
		if err := d.dec.ReadFull(payload); err != nil {
			return Value{}, eofAsMalformed(err)
		}
		return Ext(tag, payload), nil
	}

	return Value{}, errors.Malformed(errors.PhaseDecode, nil, "", fmt.Sprintf("unknown code 0x%02x", c))
}

func eofAsMalformed(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(errors.PhaseDecode, errors.KindMalformedPayload, io.ErrUnexpectedEOF, "truncated value")
	}
	return err
}

// Pack serializes v to MessagePack bytes.
func Pack(v Value) ([]byte, error) {
	buf := getBuf()
	defer putBuf(buf)

	if err := NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unpack parses exactly one value from data. Trailing bytes are an error.
func Unpack(data []byte) (Value, error) {
	r := bytes.NewReader(data)
	v, err := NewDecoder(r).Decode()
	if err != nil {
		return Value{}, eofAsMalformed(err)
	}
	if r.Len() > 0 {
		return Value{}, errors.Malformed(errors.PhaseDecode, nil, "", fmt.Sprintf("%d trailing bytes after value", r.Len()))
	}
	return v, nil
}

// UnpackAll parses a concatenated sequence of values.
func UnpackAll(data []byte) ([]Value, error) {
	dec := NewDecoder(bytes.NewReader(data))
	var out []Value
	for {
		v, err := dec.Decode()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, eofAsMalformed(err)
		}
		out = append(out, v)
	}
}
