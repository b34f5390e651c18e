package codec

import "strconv"

// Kind classifies a Shape.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindBytes
	KindBitfield
	KindRepeat
	KindRecord
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindBytes:
		return "bytes"
	case KindBitfield:
		return "bitfield"
	case KindRepeat:
		return "repeat"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Shape is a static description of a codec tree.
type Shape struct {
	// Name is the field name, empty for a root codec.
	Name string
	Kind Kind
	// Type is the record type name for KindRecord.
	Type string
	// Layout is the layout string of scalar, bytes and bitfield codecs.
	Layout string
	// Width is the encoded width in bytes, or -1 if it depends on the value.
	Width int
	// Default marks a scalar bound through the default single-byte codec.
	Default bool

	Count int    // KindRepeat
	Item  *Shape // KindRepeat

	Fields []Shape // KindRecord

	Bits []BitShape // KindBitfield

	Discriminator *Shape         // KindUnion
	Variants      []VariantShape // KindUnion
}

// BitShape describes one bitfield slot.
type BitShape struct {
	Name   string
	Offset uint8
	Width  uint8
}

// VariantShape describes one union alternative.
type VariantShape struct {
	Tag   uint64
	Shape Shape
}

// Row is one leaf of a flattened shape.
type Row struct {
	Path   string
	Offset int
	Width  int
	Kind   Kind
	Layout string
	// Default marks fields bound through the default codec.
	Default bool
	// Bits lists the slots of a bitfield row.
	Bits []BitShape
}

// Flatten lists every leaf of s with its byte offset, expanding repeats item by
// item. For unions, pick chooses the variant to expand (index into
// s.Variants); a nil pick expands the first variant.
func Flatten(s Shape, pick func(path string, u Shape) int) []Row {
	var rows []Row
	flatten(s, "", 0, pick, &rows)

	return rows
}

func flatten(s Shape, path string, offset int, pick func(string, Shape) int, rows *[]Row) int {
	switch s.Kind {
	case KindRecord:
		for _, f := range s.Fields {
			offset = flatten(f, join(path, f.Name), offset, pick, rows)
		}

		return offset
	case KindRepeat:
		for i := 0; i < s.Count; i++ {
			offset = flatten(*s.Item, path+"["+strconv.Itoa(i)+"]", offset, pick, rows)
		}

		return offset
	case KindUnion:
		offset = flatten(*s.Discriminator, join(path, s.Discriminator.Name), offset, pick, rows)
		if len(s.Variants) == 0 {
			return offset
		}

		idx := 0
		if pick != nil {
			idx = pick(path, s)
		}
		if idx < 0 || idx >= len(s.Variants) {
			idx = 0
		}
		v := s.Variants[idx].Shape

		return flatten(v, join(path, v.Name), offset, pick, rows)
	default:
		*rows = append(*rows, Row{
			Path:    path,
			Offset:  offset,
			Width:   s.Width,
			Kind:    s.Kind,
			Layout:  s.Layout,
			Default: s.Default,
			Bits:    s.Bits,
		})

		return offset + s.Width
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	if name == "" {
		return path
	}

	return path + "." + name
}
