// Package errors provides structured error types for value conversion.
//
// Errors are categorized by Phase (register, resolve, encode, decode, call,
// config) and Kind (conversion_not_supported, range, malformed_payload, ...).
// The Error type carries the offending value, the violated boundary, the Go
// and wire type names and a path into the value being converted.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindRange).
//		Path("result[0]", "created").
//		GoType("time.Time").
//		Value(secs).
//		Boundary(maxTimestamp).
//		Detail("dates greater than %s are not supported", maxTimestamp).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotSupported(errors.PhaseResolve, path, "time.Time", "ext(2)")
//	err := errors.OutOfRange(errors.PhaseDecode, path, 300, 255, "value overflows uint8")
//
// Failures reported by the remote side are *RemoteCallError values. All errors
// implement the standard error interface and support errors.Is/As.
package errors
