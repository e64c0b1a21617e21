// Package call turns the values returned by a remote function call into a
// typed result or a *errors.RemoteCallError.
//
// A call returns an envelope, an ordered list of wire values. The server
// reports an application failure by returning nil followed by a non-nil
// error descriptor; Decode checks for that first and never decodes the
// payload of a failed call. Otherwise the envelope is decoded according to
// a Shape:
//
//	user, err := call.Decode(reg, env, call.SingleValue[User]())
//	page, err := call.Decode(reg, env, call.PageOf[[]any]())
//
// The package does no I/O and never blocks.
package call
