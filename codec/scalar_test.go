package codec

import (
	"errors"
	"testing"

	"github.com/arloliu/ctpatch/errs"
	"github.com/stretchr/testify/require"
)

type color uint8

const (
	colorRed color = iota
	colorGreen
	colorBlue
)

func TestLayoutCodec(t *testing.T) {
	t.Run("little endian uint16", func(t *testing.T) {
		c := Layout[uint16]("<H")
		buf, err := Encode[uint16](c, 0x0102)
		require.NoError(t, err)
		require.Equal(t, []byte{0x02, 0x01}, buf)

		v, err := Decode[uint16](c, buf)
		require.NoError(t, err)
		require.Equal(t, uint16(0x0102), v)
	})

	t.Run("big endian uint32", func(t *testing.T) {
		c := Layout[uint32](">I")
		buf, err := Encode[uint32](c, 0x01020304)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 4}, buf)
		require.Equal(t, 4, c.Size(0))
	})

	t.Run("signed byte", func(t *testing.T) {
		c := Layout[int8]("b")
		buf, err := Encode[int8](c, -2)
		require.NoError(t, err)
		require.Equal(t, []byte{0xFE}, buf)

		v, err := Decode[int8](c, buf)
		require.NoError(t, err)
		require.Equal(t, int8(-2), v)
	})

	t.Run("signed 16 into wider type", func(t *testing.T) {
		c := Layout[int](">h")
		v, err := Decode[int](c, []byte{0xFF, 0x00})
		require.NoError(t, err)
		require.Equal(t, -256, v)
	})

	t.Run("non-integer layout panics", func(t *testing.T) {
		require.Panics(t, func() { Layout[uint8]("3s") })
	})
}

func TestLayoutCodecOverflow(t *testing.T) {
	_, err := Encode[int](Layout[int]("B"), 256)
	require.ErrorIs(t, err, errs.ErrValueOverflow)

	_, err = Encode[int](Layout[int]("B"), -1)
	require.ErrorIs(t, err, errs.ErrValueOverflow)

	_, err = Encode[int](Layout[int]("b"), 128)
	require.ErrorIs(t, err, errs.ErrValueOverflow)

	_, err = Encode[int](Layout[int]("b"), -128)
	require.NoError(t, err)

	// decoding a byte that does not fit the Go type is a schema error
	_, err = Decode[int8](Layout[int8]("B"), []byte{200})
	require.ErrorIs(t, err, errs.ErrValueOverflow)
}

func TestDefaultCodec(t *testing.T) {
	require := require.New(t)

	c := Default[color]()
	require.Equal(1, c.Size(colorRed))

	buf, err := Encode[color](c, colorBlue)
	require.NoError(err)
	require.Equal([]byte{2}, buf)

	v, err := Decode[color](c, []byte{1})
	require.NoError(err)
	require.Equal(colorGreen, v)

	s := c.Shape()
	require.Equal(KindScalar, s.Kind)
	require.True(s.Default)
	require.Equal("B", s.Layout)
	require.Equal(1, s.Width)

	_, err = Decode[color](c, nil)
	require.ErrorIs(err, errs.ErrUnderrun)
}

func TestBoolCodec(t *testing.T) {
	require := require.New(t)

	buf, err := Encode[bool](Bool(), true)
	require.NoError(err)
	require.Equal([]byte{1}, buf)

	v, err := Decode[bool](Bool(), []byte{7})
	require.NoError(err)
	require.True(v)

	v, err = Decode[bool](Bool(), []byte{0})
	require.NoError(err)
	require.False(v)
}

type label []byte

func TestBytesCodec(t *testing.T) {
	require := require.New(t)

	c := Bytes[label]("3s")
	src := []byte{0x00, 0x20, 0x29, 0xFF}

	v, err := Decode[label](c, src)
	require.NoError(err)
	require.Equal(label{0x00, 0x20, 0x29}, v)

	// decoded bytes do not alias the input
	src[0] = 0x55
	require.Equal(byte(0x00), v[0])

	buf, err := Encode[label](c, v)
	require.NoError(err)
	require.Equal([]byte{0x00, 0x20, 0x29}, buf)

	_, err = Encode[label](c, label("ab"))
	require.ErrorIs(err, errs.ErrLengthMismatch)

	var lm *errs.LengthMismatchError
	require.True(errors.As(err, &lm))
	require.Equal(3, lm.Want)
	require.Equal(2, lm.Got)

	require.Panics(func() { Bytes[[]byte]("B") })
}
