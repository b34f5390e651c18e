package codec

import (
	"strconv"

	"github.com/arloliu/ctpatch/errs"
)

// RepeatCodec reads and writes exactly n consecutive items.
type RepeatCodec[T any] struct {
	n    int
	item Codec[T]
}

// Repeat returns a codec for a sequence of exactly n items encoded back to back.
// The count is part of the schema, not of the byte stream.
func Repeat[T any](n int, item Codec[T]) *RepeatCodec[T] {
	if n < 0 {
		panic("codec: negative repeat count")
	}

	return &RepeatCodec[T]{n: n, item: item}
}

// Count returns the declared number of items.
func (c *RepeatCodec[T]) Count() int {
	return c.n
}

// Item returns the item codec.
func (c *RepeatCodec[T]) Item() Codec[T] {
	return c.item
}

func (c *RepeatCodec[T]) Decode(cur *Cursor) ([]T, error) {
	out := make([]T, c.n)
	for i := range out {
		v, err := c.item.Decode(cur)
		if err != nil {
			return nil, errs.WrapField("decode", indexName(i), err)
		}
		out[i] = v
	}

	return out, nil
}

// Append encodes every item in order. A sequence whose length differs from the
// declared count fails with *errs.LengthMismatchError before anything is written.
func (c *RepeatCodec[T]) Append(dst []byte, v []T) ([]byte, error) {
	if len(v) != c.n {
		return dst, &errs.LengthMismatchError{Want: c.n, Got: len(v)}
	}

	var err error
	for i := range v {
		dst, err = c.item.Append(dst, v[i])
		if err != nil {
			return dst, errs.WrapField("encode", indexName(i), err)
		}
	}

	return dst, nil
}

func (c *RepeatCodec[T]) Size(v []T) int {
	if len(v) == 0 {
		var zero T
		return c.n * c.item.Size(zero)
	}

	total := 0
	for i := range v {
		total += c.item.Size(v[i])
	}

	return total
}

func (c *RepeatCodec[T]) Shape() Shape {
	item := c.item.Shape()
	width := -1
	if item.Width >= 0 {
		width = c.n * item.Width
	}

	return Shape{Kind: KindRepeat, Width: width, Count: c.n, Item: &item}
}

func indexName(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
