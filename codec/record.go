package codec

import (
	"fmt"

	"github.com/arloliu/ctpatch/errs"
)

// Field is one entry of a record schema: a name, the codec that owns the
// field's bytes and an accessor locating the field inside T.
type Field[T any] interface {
	Name() string
	decodeInto(cur *Cursor, dst *T) error
	appendFrom(dst []byte, src *T) ([]byte, error)
	size(src *T) int
	shape() Shape
}

type boundField[T, F any] struct {
	name  string
	codec Codec[F]
	ref   func(*T) *F
}

func (f *boundField[T, F]) Name() string {
	return f.name
}

func (f *boundField[T, F]) decodeInto(cur *Cursor, dst *T) error {
	v, err := f.codec.Decode(cur)
	if err != nil {
		return err
	}
	*f.ref(dst) = v

	return nil
}

func (f *boundField[T, F]) appendFrom(dst []byte, src *T) ([]byte, error) {
	return f.codec.Append(dst, *f.ref(src))
}

func (f *boundField[T, F]) size(src *T) int {
	return f.codec.Size(*f.ref(src))
}

func (f *boundField[T, F]) shape() Shape {
	s := f.codec.Shape()
	s.Name = f.name

	return s
}

// Bind declares a field of T encoded by an explicit codec.
//
//	codec.Bind("pack_index", codec.Layout[uint16]("<H"),
//	    func(c *ReplacePatch) *uint16 { return &c.PackIndex })
func Bind[T, F any](name string, c Codec[F], ref func(*T) *F) Field[T] {
	if c == nil {
		panic(fmt.Sprintf("codec: field %q has no codec", name))
	}

	return &boundField[T, F]{name: name, codec: c, ref: ref}
}

// Scalar declares a field that uses the Default single-byte codec. Every
// enumeration and plain integer field without a layout is declared this way,
// which makes the one-byte width explicit in the schema.
func Scalar[T any, F Integer](name string, ref func(*T) *F) Field[T] {
	return Bind(name, Codec[F](Default[F]()), ref)
}

// Nested declares a field whose value is itself a record.
func Nested[T, F any](name string, rc *RecordCodec[F], ref func(*T) *F) Field[T] {
	return Bind(name, Codec[F](rc), ref)
}

// RecordCodec decodes and encodes a composite T by walking its fields in
// declaration order.
type RecordCodec[T any] struct {
	name   string
	fields []Field[T]
}

// Record builds a record codec. It panics on duplicate field names.
func Record[T any](name string, fields ...Field[T]) *RecordCodec[T] {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name()]; dup {
			panic(fmt.Sprintf("codec: record %s: duplicate field %q", name, f.Name()))
		}
		seen[f.Name()] = struct{}{}
	}

	return &RecordCodec[T]{name: name, fields: fields}
}

// Name returns the record type name.
func (r *RecordCodec[T]) Name() string {
	return r.name
}

// Fields returns the field names in declaration order.
func (r *RecordCodec[T]) Fields() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name()
	}

	return names
}

// Decode decodes every field in order into a new T.
func (r *RecordCodec[T]) Decode(cur *Cursor) (T, error) {
	var out T
	for _, f := range r.fields {
		if err := f.decodeInto(cur, &out); err != nil {
			var zero T
			return zero, errs.WrapField("decode", f.Name(), err)
		}
	}

	return out, nil
}

// Append concatenates the encodings of every field in order.
func (r *RecordCodec[T]) Append(dst []byte, v T) ([]byte, error) {
	var err error
	for _, f := range r.fields {
		dst, err = f.appendFrom(dst, &v)
		if err != nil {
			return dst, errs.WrapField("encode", f.Name(), err)
		}
	}

	return dst, nil
}

func (r *RecordCodec[T]) Size(v T) int {
	total := 0
	for _, f := range r.fields {
		total += f.size(&v)
	}

	return total
}

func (r *RecordCodec[T]) Shape() Shape {
	fields := make([]Shape, len(r.fields))
	width := 0
	for i, f := range r.fields {
		fields[i] = f.shape()
		if width >= 0 && fields[i].Width >= 0 {
			width += fields[i].Width
		} else {
			width = -1
		}
	}

	return Shape{Kind: KindRecord, Type: r.name, Width: width, Fields: fields}
}
