package codec

import (
	"fmt"

	"github.com/arloliu/ctpatch/endian"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/layout"
)

// ScalarCodec reads and writes one integer through a layout.
type ScalarCodec[T Integer] struct {
	layout layout.Layout
	dflt   bool
}

var _ Codec[uint8] = (*ScalarCodec[uint8])(nil)

// Layout returns a codec for an integer field described by an explicit layout
// string such as "<H" or "b". It panics if spec is not an integer layout.
func Layout[T Integer](spec string) *ScalarCodec[T] {
	l := layout.MustParse(spec)
	if !l.IsInteger() {
		panic(fmt.Sprintf("codec: layout %q is not an integer layout", spec))
	}

	return &ScalarCodec[T]{layout: l}
}

// Default returns the single-byte codec used for fields that declare no layout:
// one raw byte interpreted as an unsigned integer or enumeration value.
func Default[T Integer]() *ScalarCodec[T] {
	return &ScalarCodec[T]{layout: layout.Single, dflt: true}
}

func (c *ScalarCodec[T]) Decode(cur *Cursor) (T, error) {
	b, err := cur.ReadLayout(c.layout)
	if err != nil {
		return 0, err
	}

	u := endian.Uint(c.layout.Order, b)
	if c.layout.Kind == layout.KindSigned {
		shift := uint(64 - 8*c.layout.Width)
		return fromSigned[T](int64(u<<shift) >> shift)
	}

	return fromUnsigned[T](u)
}

func (c *ScalarCodec[T]) Append(dst []byte, v T) ([]byte, error) {
	minVal, maxVal := c.layout.Bounds()

	var raw uint64
	if isSigned[T]() {
		x := int64(v)
		if x < minVal || (x > 0 && uint64(x) > maxVal) {
			return dst, fmt.Errorf("%w: %d in layout %q", errs.ErrValueOverflow, x, c.layout.Spec)
		}
		raw = uint64(x)
	} else {
		x := uint64(v)
		if x > maxVal {
			return dst, fmt.Errorf("%w: %d in layout %q", errs.ErrValueOverflow, x, c.layout.Spec)
		}
		raw = x
	}

	return endian.AppendUint(c.layout.Order, dst, c.layout.Width, raw), nil
}

func (c *ScalarCodec[T]) Size(T) int {
	return c.layout.Width
}

func (c *ScalarCodec[T]) Shape() Shape {
	return Shape{Kind: KindScalar, Layout: c.layout.Spec, Width: c.layout.Width, Default: c.dflt}
}

// BoolCodec reads and writes a boolean byte ("?" layout). Any non-zero byte
// decodes as true; true encodes as 1.
type BoolCodec struct{}

var _ Codec[bool] = BoolCodec{}

// Bool returns the boolean byte codec.
func Bool() BoolCodec {
	return BoolCodec{}
}

func (BoolCodec) Decode(cur *Cursor) (bool, error) {
	b, err := cur.Read(1)
	if err != nil {
		return false, err
	}

	return b[0] != 0, nil
}

func (BoolCodec) Append(dst []byte, v bool) ([]byte, error) {
	if v {
		return append(dst, 1), nil
	}

	return append(dst, 0), nil
}

func (BoolCodec) Size(bool) int {
	return 1
}

func (BoolCodec) Shape() Shape {
	return Shape{Kind: KindScalar, Layout: "?", Width: 1}
}

// BytesCodec reads and writes a fixed-length raw byte string.
//
// The codec neither pads nor truncates: encoding a value whose length differs
// from the layout width fails with *errs.LengthMismatchError. Padding rules
// such as space-filled names belong to the schema.
type BytesCodec[T ~[]byte] struct {
	layout layout.Layout
}

var _ Codec[[]byte] = (*BytesCodec[[]byte])(nil)

// Bytes returns a codec for a raw byte field, e.g. Bytes[[]byte]("16s").
func Bytes[T ~[]byte](spec string) *BytesCodec[T] {
	l := layout.MustParse(spec)
	if l.Kind != layout.KindBytes {
		panic(fmt.Sprintf("codec: layout %q is not a byte string layout", spec))
	}

	return &BytesCodec[T]{layout: l}
}

func (c *BytesCodec[T]) Decode(cur *Cursor) (T, error) {
	b, err := cur.ReadLayout(c.layout)
	if err != nil {
		return nil, err
	}

	out := make(T, len(b))
	copy(out, b)

	return out, nil
}

func (c *BytesCodec[T]) Append(dst []byte, v T) ([]byte, error) {
	if len(v) != c.layout.Width {
		return dst, &errs.LengthMismatchError{Want: c.layout.Width, Got: len(v)}
	}

	return append(dst, v...), nil
}

func (c *BytesCodec[T]) Size(T) int {
	return c.layout.Width
}

func (c *BytesCodec[T]) Shape() Shape {
	return Shape{Kind: KindBytes, Layout: c.layout.Spec, Width: c.layout.Width}
}

func isSigned[T Integer]() bool {
	var zero T
	return zero-1 < zero
}

func fromSigned[T Integer](s int64) (T, error) {
	v := T(s)
	if isSigned[T]() {
		if int64(v) != s {
			return 0, fmt.Errorf("%w: %d", errs.ErrValueOverflow, s)
		}
	} else if s < 0 || uint64(v) != uint64(s) {
		return 0, fmt.Errorf("%w: %d", errs.ErrValueOverflow, s)
	}

	return v, nil
}

func fromUnsigned[T Integer](u uint64) (T, error) {
	v := T(u)
	if isSigned[T]() {
		if int64(v) < 0 || uint64(int64(v)) != u {
			return 0, fmt.Errorf("%w: %d", errs.ErrValueOverflow, u)
		}
	} else if uint64(v) != u {
		return 0, fmt.Errorf("%w: %d", errs.ErrValueOverflow, u)
	}

	return v, nil
}
