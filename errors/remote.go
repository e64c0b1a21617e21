package errors

import (
	"fmt"
	"strings"
)

// ErrRemoteCall is a sentinel for use with errors.Is to check whether any
// error in a chain is a *RemoteCallError.
var ErrRemoteCall = &RemoteCallError{}

// RemoteCallPrefix starts the message of every *RemoteCallError.
const RemoteCallPrefix = "[" + string(PhaseCall) + "] " + string(KindRemoteCall) + ": "

// RemoteCallError is an application-level failure reported by the server in
// the call envelope. It is never produced by a local conversion.
type RemoteCallError struct {
	Extra   map[string]any
	Class   string // e.g. "InsertError", "ClientError"
	Message string
	Str     string // server-side rendering, usually "Class: Message"
	File    string
	Stack   string
	Code    int64
	Line    int64
}

func (e *RemoteCallError) Error() string {
	var b strings.Builder
	b.WriteString(RemoteCallPrefix)
	switch {
	case e.Class != "" && e.Message != "":
		b.WriteString(e.Class)
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Str != "":
		b.WriteString(e.Str)
	case e.Class != "":
		b.WriteString(e.Class)
	default:
		b.WriteString("unknown error")
	}
	if e.Code != 0 {
		b.WriteString(fmt.Sprintf(" (code %d)", e.Code))
	}
	return b.String()
}

// Is supports errors.Is by matching any *RemoteCallError target.
func (e *RemoteCallError) Is(target error) bool {
	_, ok := target.(*RemoteCallError)
	return ok
}
