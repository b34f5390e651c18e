package codec

import (
	"github.com/arloliu/ctpatch/errs"
)

// Integer is the set of types the scalar codecs can decode into.
// Named integer types such as enumerations are accepted.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Codec maps values of type T to and from a byte span.
//
// Implementations are immutable once built and safe for concurrent use; all
// per-call state lives in the Cursor or the destination slice.
type Codec[T any] interface {
	// Decode consumes the bytes of one value from cur.
	Decode(cur *Cursor) (T, error)
	// Append appends the encoding of v to dst and returns the extended slice.
	Append(dst []byte, v T) ([]byte, error)
	// Size returns the number of bytes Append writes for v.
	Size(v T) int
	// Shape describes the codec for inspection.
	Shape() Shape
}

// Decode decodes one value of c from the start of buf. Trailing bytes are
// ignored; use DecodeExact when buf must hold exactly one value.
func Decode[T any](c Codec[T], buf []byte) (T, error) {
	return c.Decode(NewCursor(buf))
}

// DecodeExact decodes one value of c and requires that it consumes all of buf.
//
// Returns:
//   - T: the decoded value
//   - error: decode errors, or *errs.LengthMismatchError if bytes remain
func DecodeExact[T any](c Codec[T], buf []byte) (T, error) {
	cur := NewCursor(buf)
	v, err := c.Decode(cur)
	if err != nil {
		return v, err
	}

	if cur.Remaining() != 0 {
		var zero T
		return zero, &errs.LengthMismatchError{Want: cur.Offset(), Got: len(buf)}
	}

	return v, nil
}

// Encode returns the encoding of v in a newly allocated slice.
func Encode[T any](c Codec[T], v T) ([]byte, error) {
	return c.Append(make([]byte, 0, c.Size(v)), v)
}
