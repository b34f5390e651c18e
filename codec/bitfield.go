package codec

import (
	"fmt"
	"unsafe"
)

// BitSlot binds one named sub-field of a bitfield to a field of T.
type BitSlot[T any] interface {
	slotName() string
	slotWidth() uint8
	get(src *T) uint64
	set(dst *T, v uint64)
}

type bitsSlot[T any, F Integer] struct {
	name  string
	width uint8
	ref   func(*T) *F
}

func (s bitsSlot[T, F]) slotName() string { return s.name }
func (s bitsSlot[T, F]) slotWidth() uint8 { return s.width }
func (s bitsSlot[T, F]) get(src *T) uint64 { return uint64(*s.ref(src)) }
func (s bitsSlot[T, F]) set(dst *T, v uint64) { *s.ref(dst) = F(v) }

type flagSlot[T any] struct {
	name string
	ref  func(*T) *bool
}

func (s flagSlot[T]) slotName() string { return s.name }
func (s flagSlot[T]) slotWidth() uint8 { return 1 }

func (s flagSlot[T]) get(src *T) uint64 {
	if *s.ref(src) {
		return 1
	}

	return 0
}

func (s flagSlot[T]) set(dst *T, v uint64) { *s.ref(dst) = v != 0 }

// Bits declares an integer sub-field of width bits.
func Bits[T any, F Integer](name string, width uint8, ref func(*T) *F) BitSlot[T] {
	var zero F
	if width == 0 || uintptr(width) > 8*unsafe.Sizeof(zero) {
		panic(fmt.Sprintf("codec: bit slot %q: width %d does not fit its type", name, width))
	}

	return bitsSlot[T, F]{name: name, width: width, ref: ref}
}

// Flag declares a one-bit boolean sub-field.
func Flag[T any](name string, ref func(*T) *bool) BitSlot[T] {
	return flagSlot[T]{name: name, ref: ref}
}

// BitfieldCodec packs named sub-fields of T into a fixed number of bytes.
//
// Sub-fields are laid out from the least significant bit in declaration order.
// Multi-byte bitfields are assembled little-endian. Encoding masks every
// sub-field to its width so an oversized value never spills into a neighbor;
// decoding accepts any bit pattern.
type BitfieldCodec[T any] struct {
	nbytes int
	slots  []BitSlot[T]
	widths []uint8
}

// Bitfield returns a codec spanning nbytes (1 to 8) bytes. It panics if the
// slot widths exceed nbytes*8 bits.
func Bitfield[T any](nbytes int, slots ...BitSlot[T]) *BitfieldCodec[T] {
	if nbytes < 1 || nbytes > 8 {
		panic(fmt.Sprintf("codec: bitfield of %d bytes", nbytes))
	}

	widths := make([]uint8, len(slots))
	total := 0
	for i, s := range slots {
		widths[i] = s.slotWidth()
		total += int(widths[i])
	}
	if total > nbytes*8 {
		panic(fmt.Sprintf("codec: bitfield slots need %d bits, have %d", total, nbytes*8))
	}

	return &BitfieldCodec[T]{nbytes: nbytes, slots: slots, widths: widths}
}

func (c *BitfieldCodec[T]) Decode(cur *Cursor) (T, error) {
	var out T

	b, err := cur.Read(c.nbytes)
	if err != nil {
		return out, err
	}

	var word uint64
	for i := len(b) - 1; i >= 0; i-- {
		word = word<<8 | uint64(b[i])
	}

	for i, v := range UnpackBits(c.widths, word) {
		c.slots[i].set(&out, v)
	}

	return out, nil
}

func (c *BitfieldCodec[T]) Append(dst []byte, v T) ([]byte, error) {
	values := make([]uint64, len(c.slots))
	for i, s := range c.slots {
		values[i] = s.get(&v)
	}

	word := PackBits(c.widths, values)
	for i := 0; i < c.nbytes; i++ {
		dst = append(dst, byte(word>>(8*i)))
	}

	return dst, nil
}

func (c *BitfieldCodec[T]) Size(T) int {
	return c.nbytes
}

func (c *BitfieldCodec[T]) Shape() Shape {
	bits := make([]BitShape, len(c.slots))
	offset := uint8(0)
	for i, s := range c.slots {
		bits[i] = BitShape{Name: s.slotName(), Offset: offset, Width: s.slotWidth()}
		offset += s.slotWidth()
	}

	return Shape{Kind: KindBitfield, Layout: fmt.Sprintf("%ds", c.nbytes), Width: c.nbytes, Bits: bits}
}

// PackBits packs values into a word, LSB first, masking each value to the
// matching width. Missing values pack as zero.
func PackBits(widths []uint8, values []uint64) uint64 {
	var word uint64
	shift := uint(0)
	for i, w := range widths {
		if i < len(values) {
			word |= (values[i] & mask(w)) << shift
		}
		shift += uint(w)
	}

	return word
}

// UnpackBits is the inverse of PackBits.
func UnpackBits(widths []uint8, word uint64) []uint64 {
	values := make([]uint64, len(widths))
	shift := uint(0)
	for i, w := range widths {
		values[i] = (word >> shift) & mask(w)
		shift += uint(w)
	}

	return values
}

func mask(width uint8) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<width - 1
}
