// Package layout parses positional layout strings.
//
// A layout string describes exactly one fixed-width field:
//
//	[order][count]code
//
// The optional order character selects the byte order of multi-byte integers:
//
//	@ =   native
//	<     little-endian
//	> !   big-endian (network)
//
// The code selects the width and interpretation:
//
//	B b   unsigned / signed 8-bit integer
//	H h   unsigned / signed 16-bit integer
//	I i   unsigned / signed 32-bit integer (L l are accepted as aliases)
//	Q q   unsigned / signed 64-bit integer
//	?     boolean byte
//	s     raw byte string, count bytes long
//
// A count is only accepted in front of 's' ("16s"); "s" alone is one byte.
// Repetition of scalars is expressed by the repeated codec, not by a count.
package layout

import (
	"fmt"
	"strconv"

	"github.com/arloliu/ctpatch/endian"
	"github.com/arloliu/ctpatch/errs"
)

// Kind is the interpretation of the bytes described by a layout.
type Kind uint8

const (
	KindUnsigned Kind = iota + 1
	KindSigned
	KindBool
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "uint"
	case KindSigned:
		return "int"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Layout is a parsed layout string.
type Layout struct {
	// Spec is the original layout string.
	Spec  string
	Kind  Kind
	Width int
	Order endian.EndianEngine
}

// Single is the layout of the default single-byte codec.
var Single = MustParse("B")

// Parse parses a layout string.
//
// Parameters:
//   - spec: layout string, e.g. "B", "<H", "16s"
//
// Returns:
//   - Layout: parsed layout; Order defaults to native when no prefix is given
//   - error: ErrInvalidLayout wrapped with the offending spec
func Parse(spec string) (Layout, error) {
	l := Layout{Spec: spec, Order: endian.CheckEndianness()}

	rest := spec
	if rest != "" {
		if engine, ok := endian.ForPrefix(rest[0]); ok {
			l.Order = engine
			rest = rest[1:]
		}
	}

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}

	count := -1
	if i > 0 {
		n, err := strconv.Atoi(rest[:i])
		if err != nil || n <= 0 {
			return Layout{}, fmt.Errorf("%w: %q: bad count", errs.ErrInvalidLayout, spec)
		}
		count = n
	}

	if len(rest)-i != 1 {
		return Layout{}, fmt.Errorf("%w: %q: want exactly one code", errs.ErrInvalidLayout, spec)
	}

	code := rest[i]
	if count != -1 && code != 's' {
		return Layout{}, fmt.Errorf("%w: %q: count only allowed with 's'", errs.ErrInvalidLayout, spec)
	}

	switch code {
	case 'B':
		l.Kind, l.Width = KindUnsigned, 1
	case 'b':
		l.Kind, l.Width = KindSigned, 1
	case 'H':
		l.Kind, l.Width = KindUnsigned, 2
	case 'h':
		l.Kind, l.Width = KindSigned, 2
	case 'I', 'L':
		l.Kind, l.Width = KindUnsigned, 4
	case 'i', 'l':
		l.Kind, l.Width = KindSigned, 4
	case 'Q':
		l.Kind, l.Width = KindUnsigned, 8
	case 'q':
		l.Kind, l.Width = KindSigned, 8
	case '?':
		l.Kind, l.Width = KindBool, 1
	case 's':
		l.Kind, l.Width = KindBytes, 1
		if count > 0 {
			l.Width = count
		}
	default:
		return Layout{}, fmt.Errorf("%w: %q: unknown code %q", errs.ErrInvalidLayout, spec, code)
	}

	return l, nil
}

// MustParse is like Parse but panics on error. Schemas are static tables, so a
// bad layout is a programming error caught at package initialization.
func MustParse(spec string) Layout {
	l, err := Parse(spec)
	if err != nil {
		panic(err)
	}

	return l
}

// IsInteger reports whether the layout describes a signed or unsigned integer.
func (l Layout) IsInteger() bool {
	return l.Kind == KindUnsigned || l.Kind == KindSigned
}

// Bounds returns the inclusive range of values representable by an integer
// layout. Unsigned bounds are returned in max; min is 0.
func (l Layout) Bounds() (minVal int64, maxVal uint64) {
	bits := uint(l.Width * 8)
	if l.Kind == KindSigned {
		return -(int64(1) << (bits - 1)), uint64(1)<<(bits-1) - 1
	}
	if bits == 64 {
		return 0, ^uint64(0)
	}

	return 0, uint64(1)<<bits - 1
}

func (l Layout) String() string {
	return l.Spec
}
