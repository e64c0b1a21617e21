// Package coerce holds the numeric range checks shared by the default
// integer and float codecs and the codecs for named integer types.
package coerce
