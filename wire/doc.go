// Package wire implements the compact binary encoding shared by every
// generated binding.
//
// # Encoding
//
//	bool           one byte, 0 or 1
//	u8..u128       LEB128 varint, canonical, at most ceil(W/7) groups
//	s8..s128       zigzag at width W, then varint
//	f32, f64       IEEE-754 little endian
//	string, bytes  varint length, then the raw bytes (strings are UTF-8)
//	char           a string holding exactly one code point
//	list<T>        varint count, then elements
//	tuple          elements in order, no count
//	struct         fields in declaration order
//	variant        varint case index, then the case payload if any
//	option<T>      variant {none, some(T)}
//	result<T, E>   variant {ok(T?), err(E?)}
//	enum           varint ordinal
//	flags          unsigned integer sized by the flag count
//	handle         varint u32 resource id
//
// # Codecs
//
// Writer and Reader keep the first failure and turn later calls into
// no-ops, so composite encoders read as straight-line code:
//
//	w := wire.NewWriter(16)
//	w.WriteTag(1)
//	w.WriteU64(5)
//	if err := w.Err(); err != nil { ... }
//
// ListWriter, OptionWriter, ResultWriter and the TupleN helpers compose
// element codecs into codecs for containers. Generated Go bindings are
// built from these functions.
//
// Narrow and the 128-bit conversions implement checked integer casts that
// fail with a range_violation error instead of truncating.
package wire
