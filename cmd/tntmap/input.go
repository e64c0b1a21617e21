package main

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/nickkkcc/cartridge-go/call"
	"github.com/nickkkcc/cartridge-go/wire"
)

const maxInput = 64 << 20

// readEnvelope decodes a captured response body. A top-level array is the
// envelope itself; any other value is a one-value envelope.
func readEnvelope(r io.Reader, format string, compressed bool) (call.Envelope, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxInput+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(raw) > maxInput {
		return nil, fmt.Errorf("input larger than %d bytes", maxInput)
	}
	return parseEnvelope(raw, format, compressed)
}

func parseEnvelope(raw []byte, format string, compressed bool) (call.Envelope, error) {
	data, err := decodeText(raw, format)
	if err != nil {
		return nil, err
	}
	if compressed {
		if data, err = decompress(data); err != nil {
			return nil, err
		}
	}

	v, err := wire.Unpack(data)
	if err != nil {
		return nil, err
	}
	if v.Kind() == wire.KindArray {
		return call.Envelope(v.Items()), nil
	}
	return call.Envelope{v}, nil
}

func decodeText(raw []byte, format string) ([]byte, error) {
	switch format {
	case formatRaw:
		return raw, nil
	case formatBase64:
		s := strings.Join(strings.Fields(string(raw)), "")
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		return b, nil
	case formatHex:
		s := strings.Join(strings.Fields(string(raw)), "")
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode hex: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(maxInput))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
