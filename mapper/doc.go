// Package mapper converts between native Go values and wire values.
//
// Configuration happens on a Builder, which is then frozen into an
// immutable Registry:
//
//	b := mapper.NewDefaultBuilder()
//	_ = mapper.Register(b, myCodec)
//	reg, err := b.Build()
//
// Encoders are looked up by exact Go type. Decoders are tried in priority
// order: user decoders, most recently registered first, then the defaults.
// The first decoder whose CanDecode accepts a value wins. Slice, array, map
// and pointer types are assembled from the codecs of their element types.
//
// The default set covers bool, all integer widths with range checks,
// float32 and float64, string, []byte, time.Time (extension 0x04),
// uuid.UUID (extension 0x02), server error objects (extension 0x03) and
// wire.Value itself.
//
// A Registry is safe for concurrent use. Resolution results are cached per
// Go type and per wire shape; the cache never changes which codec wins.
package mapper
