package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestForPrefix(t *testing.T) {
	tests := []struct {
		prefix byte
		want   EndianEngine
		ok     bool
	}{
		{'<', binary.LittleEndian, true},
		{'>', binary.BigEndian, true},
		{'!', binary.BigEndian, true},
		{'=', CheckEndianness(), true},
		{'@', CheckEndianness(), true},
		{'B', nil, false},
		{'3', nil, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.prefix), func(t *testing.T) {
			engine, ok := ForPrefix(tt.prefix)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, engine)
		})
	}
}

func TestUintRoundTrip(t *testing.T) {
	engines := map[string]EndianEngine{
		"little": GetLittleEndianEngine(),
		"big":    GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			for _, tc := range []struct {
				width int
				value uint64
			}{
				{1, 0xAB},
				{2, 0x0102},
				{4, 0x01020304},
				{8, 0x0102030405060708},
			} {
				buf := AppendUint(engine, nil, tc.width, tc.value)
				require.Len(t, buf, tc.width)
				require.Equal(t, tc.value, Uint(engine, buf))
			}
		})
	}
}

func TestAppendUintByteOrder(t *testing.T) {
	require.Equal(t, []byte{0x02, 0x01}, AppendUint(GetLittleEndianEngine(), nil, 2, 0x0102))
	require.Equal(t, []byte{0x01, 0x02}, AppendUint(GetBigEndianEngine(), nil, 2, 0x0102))

	// only the low bytes of the value are kept
	require.Equal(t, []byte{0x34}, AppendUint(GetBigEndianEngine(), nil, 1, 0x1234))
}

func TestUnsupportedWidthPanics(t *testing.T) {
	require.Panics(t, func() { Uint(GetLittleEndianEngine(), make([]byte, 3)) })
	require.Panics(t, func() { AppendUint(GetLittleEndianEngine(), nil, 5, 1) })
}
