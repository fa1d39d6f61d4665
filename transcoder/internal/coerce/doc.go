// Package coerce converts loosely typed host values (native Go integers,
// JSON numbers, 128-bit wire integers) into the integer and float domains
// the transcoder encodes.
//
// Conversions are exact: a fractional float or an out-of-range value is
// reported as not convertible rather than truncated.
//
// This package is internal to the transcoder.
package coerce
