package codec

import (
	"fmt"

	"github.com/arloliu/ctpatch/errs"
)

// Variant is one alternative of a tagged union over T.
type Variant[T any, D Integer] interface {
	Tag() D
	Name() string
	decode(cur *Cursor) (T, error)
	match(v T) bool
	appendTo(dst []byte, v T) ([]byte, error)
	size(v T) int
	shape() Shape
}

type caseVariant[T any, D Integer, V any] struct {
	tag   D
	name  string
	codec Codec[V]
}

func (c *caseVariant[T, D, V]) Tag() D { return c.tag }
func (c *caseVariant[T, D, V]) Name() string { return c.name }

func (c *caseVariant[T, D, V]) decode(cur *Cursor) (T, error) {
	v, err := c.codec.Decode(cur)
	if err != nil {
		var zero T
		return zero, err
	}

	return any(v).(T), nil
}

func (c *caseVariant[T, D, V]) match(v T) bool {
	_, ok := any(v).(V)
	return ok
}

func (c *caseVariant[T, D, V]) appendTo(dst []byte, v T) ([]byte, error) {
	return c.codec.Append(dst, any(v).(V))
}

func (c *caseVariant[T, D, V]) size(v T) int {
	if vv, ok := any(v).(V); ok {
		return c.codec.Size(vv)
	}

	var zero V
	return c.codec.Size(zero)
}

func (c *caseVariant[T, D, V]) shape() Shape {
	s := c.codec.Shape()
	s.Name = c.name

	return s
}

// Case declares the variant of T selected by tag. Values of concrete type V
// are encoded with c; V must be assignable to T.
func Case[T any, D Integer, V any](tag D, name string, c Codec[V]) Variant[T, D] {
	var zero V
	if _, ok := any(zero).(T); !ok {
		panic(fmt.Sprintf("codec: variant %q: %T is not assignable to the union type", name, zero))
	}

	return &caseVariant[T, D, V]{tag: tag, name: name, codec: c}
}

// UnionCodec is a tagged union: a discriminator followed by the body of the
// variant it selects.
//
// Decoding reads the discriminator first and dispatches on it, so each variant
// only has to describe its own body. Encoding picks the variant by the dynamic
// type of the value and writes that variant's tag.
type UnionCodec[T any, D Integer] struct {
	disc     Codec[D]
	variants []Variant[T, D]
}

// Union builds a tagged union codec. It panics on duplicate tags.
func Union[T any, D Integer](disc Codec[D], variants ...Variant[T, D]) *UnionCodec[T, D] {
	seen := make(map[D]string, len(variants))
	for _, v := range variants {
		if prev, dup := seen[v.Tag()]; dup {
			panic(fmt.Sprintf("codec: union variants %q and %q share tag %d", prev, v.Name(), v.Tag()))
		}
		seen[v.Tag()] = v.Name()
	}

	return &UnionCodec[T, D]{disc: disc, variants: variants}
}

// Variant returns the variant registered for tag.
func (u *UnionCodec[T, D]) Variant(tag D) (Variant[T, D], bool) {
	for _, v := range u.variants {
		if v.Tag() == tag {
			return v, true
		}
	}

	return nil, false
}

func (u *UnionCodec[T, D]) Decode(cur *Cursor) (T, error) {
	var zero T

	at := cur.Offset()
	tag, err := u.disc.Decode(cur)
	if err != nil {
		return zero, err
	}

	v, ok := u.Variant(tag)
	if !ok {
		return zero, fmt.Errorf("%w: %d at offset %d", errs.ErrUnknownVariant, tag, at)
	}

	out, err := v.decode(cur)
	if err != nil {
		return zero, errs.WrapField("decode", v.Name(), err)
	}

	return out, nil
}

func (u *UnionCodec[T, D]) Append(dst []byte, val T) ([]byte, error) {
	v, ok := u.variantOf(val)
	if !ok {
		return dst, fmt.Errorf("%w: %T", errs.ErrVariantMismatch, val)
	}

	dst, err := u.disc.Append(dst, v.Tag())
	if err != nil {
		return dst, err
	}

	dst, err = v.appendTo(dst, val)
	if err != nil {
		return dst, errs.WrapField("encode", v.Name(), err)
	}

	return dst, nil
}

// Size returns the encoded size of val, or the size of the first variant when
// val matches none.
func (u *UnionCodec[T, D]) Size(val T) int {
	var tag D
	n := u.disc.Size(tag)

	if v, ok := u.variantOf(val); ok {
		return n + v.size(val)
	}
	if len(u.variants) > 0 {
		return n + u.variants[0].size(val)
	}

	return n
}

func (u *UnionCodec[T, D]) Shape() Shape {
	disc := u.disc.Shape()
	disc.Name = "tag"

	variants := make([]VariantShape, len(u.variants))
	width := -2
	for i, v := range u.variants {
		s := v.shape()
		variants[i] = VariantShape{Tag: uint64(v.Tag()), Shape: s}

		switch {
		case width == -2:
			width = s.Width
		case width != s.Width:
			width = -1
		}
	}

	if width >= 0 && disc.Width >= 0 {
		width += disc.Width
	} else {
		width = -1
	}

	return Shape{Kind: KindUnion, Width: width, Discriminator: &disc, Variants: variants}
}

func (u *UnionCodec[T, D]) variantOf(val T) (Variant[T, D], bool) {
	if any(val) == nil {
		return nil, false
	}

	for _, v := range u.variants {
		if v.match(val) {
			return v, true
		}
	}

	return nil, false
}
