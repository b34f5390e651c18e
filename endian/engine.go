// Package endian provides byte order utilities for the layout codecs.
//
// EndianEngine combines encoding/binary's ByteOrder and AppendByteOrder so a
// single value can both read fixed-width integers out of a buffer and append
// them to one. The layout package resolves the byte order prefix of a layout
// string ("<", ">", "!", "=", "@") to an engine through ForPrefix.
//
//	engine, _ := endian.ForPrefix('<')
//	dst = endian.AppendUint(engine, dst, 2, 0x0102) // 02 01
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() EndianEngine {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return GetBigEndianEngine()
	}

	return GetLittleEndianEngine()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ForPrefix resolves a layout byte order character to an engine.
//
// Parameters:
//   - c: one of '@' and '=' (native), '<' (little), '>' and '!' (big)
//
// Returns:
//   - EndianEngine: the matching engine
//   - bool: false if c is not a byte order character
func ForPrefix(c byte) (EndianEngine, bool) {
	switch c {
	case '@', '=':
		return CheckEndianness(), true
	case '<':
		return GetLittleEndianEngine(), true
	case '>', '!':
		return GetBigEndianEngine(), true
	default:
		return nil, false
	}
}

// Uint reads an unsigned integer of len(b) bytes (1, 2, 4 or 8).
// It panics on any other width; callers obtain widths from a parsed layout.
func Uint(engine EndianEngine, b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(engine.Uint16(b))
	case 4:
		return uint64(engine.Uint32(b))
	case 8:
		return engine.Uint64(b)
	default:
		panic("endian: unsupported integer width")
	}
}

// AppendUint appends the low width bytes of v to dst in the engine's byte order.
func AppendUint(engine EndianEngine, dst []byte, width int, v uint64) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return engine.AppendUint16(dst, uint16(v))
	case 4:
		return engine.AppendUint32(dst, uint32(v))
	case 8:
		return engine.AppendUint64(dst, v)
	default:
		panic("endian: unsupported integer width")
	}
}
