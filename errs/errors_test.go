package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{"underrun", &UnderrunError{Offset: 100, Need: 1, Have: 0}, ErrUnderrun, "buffer underrun at offset 100: need 1 bytes, have 0"},
		{"length", &LengthMismatchError{Want: 20, Got: 19}, ErrLengthMismatch, "length mismatch: want 20, got 19"},
		{"validation", &ValidationError{Check: "end_of_exclusive"}, ErrValidation, "validation failed: end_of_exclusive"},
		{"validation detail", &ValidationError{Check: "manufacturer_id", Detail: "got 00 21 29"}, ErrValidation, "validation failed: manufacturer_id: got 00 21 29"},
		{"framing", &FramingError{Reason: "wrong packet length", Len: 349, Want: 350}, ErrFraming, "invalid packet framing: wrong packet length (len 349, want 350)"},
		{"framing no length", &FramingError{Reason: "missing end of exclusive", Len: 350}, ErrFraming, "invalid packet framing: missing end of exclusive (len 350)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.target)
			require.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.target)
			require.Equal(t, tt.msg, tt.err.Error())
		})
	}

	require.NotErrorIs(t, &UnderrunError{}, ErrFraming)
}

func TestWrapField(t *testing.T) {
	require := require.New(t)

	require.NoError(WrapField("decode", "x", nil))

	inner := &UnderrunError{Offset: 108, Need: 1}
	err := WrapField("decode", "flags", inner)
	err = WrapField("decode", "[1]", err)
	err = WrapField("decode", "lfos", err)

	var fe *FieldError
	require.True(errors.As(err, &fe))
	require.Equal("decode", fe.Op)
	require.Equal("lfos[1].flags", fe.Field())
	require.Equal("decode lfos[1].flags: buffer underrun at offset 108: need 1 bytes, have 0", err.Error())
	require.ErrorIs(err, ErrUnderrun)

	var ue *UnderrunError
	require.True(errors.As(err, &ue))
	require.Same(inner, ue)
}
