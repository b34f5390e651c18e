// Package codec is a schema-driven codec for fixed-layout binary records.
//
// A record schema is a static, ordered list of fields built once per Go type.
// Each field names the codec that owns its bytes and an accessor that locates
// the field inside the record value:
//
//	type Item struct {
//	    Kind  uint8
//	    Items []uint8
//	}
//
//	var itemCodec = codec.Record[Item]("Item",
//	    codec.Scalar("kind", func(r *Item) *uint8 { return &r.Kind }),
//	    codec.Bind("items", codec.Repeat(4, codec.Default[uint8]()),
//	        func(r *Item) *[]uint8 { return &r.Items }),
//	)
//
//	buf, _ := codec.Encode(itemCodec, Item{Kind: 2, Items: []uint8{1, 2, 3, 4}})
//	// buf == []byte{2, 1, 2, 3, 4}
//
// # Codecs
//
//   - Layout and Bytes: one scalar or raw byte string described by a layout
//     string (see package layout).
//   - Default: the single-byte unsigned codec used by Scalar fields.
//   - Bitfield: named sub-fields packed into a few bytes, LSB first.
//   - Repeat: a fixed count of items; the count is never in the byte stream.
//   - Record and Nested: composite records, nested to any depth.
//   - Union: a discriminator followed by the selected variant's body.
//
// # Length
//
// The walker does not check total packet length. A schema whose widths sum to
// L decodes exactly L bytes and encodes exactly L bytes; the caller's boundary
// layer rejects buffers of the wrong size before decoding.
//
// # Errors
//
// Decode errors are *errs.UnderrunError, errs.ErrValueOverflow or
// errs.ErrUnknownVariant; encode errors are *errs.LengthMismatchError,
// errs.ErrValueOverflow or errs.ErrVariantMismatch. Errors raised below a
// record field are wrapped in *errs.FieldError carrying the field path.
//
// Codecs are immutable and safe for concurrent use. A Cursor belongs to a
// single decode call.
package codec
