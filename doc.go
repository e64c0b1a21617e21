// Package cartridge converts values between Go and the Tarantool wire model.
//
// The library turns Go values into MessagePack-shaped wire values for call
// arguments and turns the values returned by a remote call back into typed Go
// results. Conversions are pluggable per Go type and per wire shape.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	cartridge/           Root package with the shared default registry
//	├── wire/            Wire value model and MessagePack byte adapter
//	├── mapper/          Codec contracts, Builder, frozen Registry, default codecs
//	├── call/            Call result envelopes, result shapes, error detection
//	├── proxy/           CRUD operation arguments and options, Caller interface
//	├── errors/          Structured error types for conversion failures
//	└── cmd/tntmap/      Inspector for captured response envelopes
//
// # Quick Start
//
// Build a registry, encode arguments, decode the result:
//
//	reg, err := mapper.NewDefaultBuilder().Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	op, err := proxy.Insert(reg, "users", []any{1, "alice", time.Now()}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := proxy.Execute(ctx, conn, reg, op, call.SingleValue[[]any]())
//
// # Custom Codecs
//
// User codecs take priority over the defaults and can claim extension tags:
//
//	b := mapper.NewDefaultBuilder()
//	if err := mapper.Register(b, mapper.ExtCodec(extDecimal, encodeDecimal, decodeDecimal)); err != nil {
//	    log.Fatal(err)
//	}
//	reg, err := b.Build()
//
// # Thread Safety
//
// Builder is NOT thread-safe and should be configured by a single goroutine.
// Build freezes it; the resulting Registry and its codecs are immutable and
// safe for concurrent use.
//
// # Timestamps
//
// time.Time travels as extension 0x04 with a 16-byte payload. Only instants
// between MinTimestamp and MaxTimestamp are representable; anything outside
// fails with a range error naming the violated boundary.
package cartridge
