// Package wire models the self-describing values exchanged with the server.
//
// A Value is an immutable tagged union over nil, bool, integers, floats,
// strings, binaries, arrays, ordered maps and tagged extensions. The package
// assigns no meaning to extension tags; codecs in package mapper do.
//
// Pack and Unpack translate Values to and from MessagePack bytes:
//
//	b, _ := wire.Pack(wire.Array(wire.Int(1), wire.String("x")))
//	v, _ := wire.Unpack(b)
package wire
