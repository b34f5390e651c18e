// Package errs defines the error values returned by ctpatch packages.
//
// Every failure is reported either as one of the sentinel values below or as a
// typed error that matches a sentinel through errors.Is. Callers that only need
// to classify a failure should test the sentinel:
//
//	if errors.Is(err, errs.ErrUnderrun) {
//	    // truncated input
//	}
//
// Callers that need the details use errors.As with the typed error.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnderrun is matched by UnderrunError.
	ErrUnderrun = errors.New("buffer underrun")
	// ErrLengthMismatch is matched by LengthMismatchError.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrValidation is matched by ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrFraming is matched by FramingError.
	ErrFraming = errors.New("invalid packet framing")

	ErrInvalidLayout   = errors.New("invalid layout string")
	ErrValueOverflow   = errors.New("value does not fit in field width")
	ErrUnknownVariant  = errors.New("unknown variant discriminator")
	ErrVariantMismatch = errors.New("value does not match any variant")

	ErrNameTooLong = errors.New("patch name too long")

	ErrInvalidArchive     = errors.New("invalid bank archive")
	ErrChecksumMismatch   = errors.New("bank archive checksum mismatch")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrSlotOutOfRange     = errors.New("patch slot out of range")
	ErrDuplicateSlot      = errors.New("duplicate patch slot")
	ErrEmptyBank          = errors.New("bank contains no patches")

	ErrPortClosed = errors.New("port closed")
)

// UnderrunError reports a read that needed more bytes than the buffer had left.
type UnderrunError struct {
	// Offset is the cursor position at which the failing read began.
	Offset int
	// Need is the number of bytes the read required.
	Need int
	// Have is the number of bytes left in the buffer at Offset.
	Have int
}

func (e *UnderrunError) Error() string {
	return fmt.Sprintf("buffer underrun at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *UnderrunError) Is(target error) bool {
	return target == ErrUnderrun
}

// LengthMismatchError reports a sequence or byte string whose runtime length
// differs from the static length declared by its codec.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: want %d, got %d", e.Want, e.Got)
}

func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// ValidationError reports a record that violates a domain invariant.
type ValidationError struct {
	// Check names the invariant that failed, e.g. "manufacturer_id".
	Check  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "validation failed: " + e.Check
	}

	return fmt.Sprintf("validation failed: %s: %s", e.Check, e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FramingError reports a packet rejected at the boundary before decoding.
type FramingError struct {
	Reason string
	// Len is the length of the rejected packet.
	Len int
	// Want is the expected packet length, or 0 when the length was not the problem.
	Want int
}

func (e *FramingError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("invalid packet framing: %s (len %d, want %d)", e.Reason, e.Len, e.Want)
	}

	return fmt.Sprintf("invalid packet framing: %s (len %d)", e.Reason, e.Len)
}

func (e *FramingError) Is(target error) bool {
	return target == ErrFraming
}

// FieldError attaches the dotted path of the field being decoded or encoded
// to an underlying codec error.
type FieldError struct {
	Op   string // "decode" or "encode"
	Path []string
	Err  error
}

// WrapField prefixes name to the path of err. Nested records call it on the way
// out so the final path reads from the root, e.g. "lfos[1].flags".
func WrapField(op, name string, err error) error {
	if err == nil {
		return nil
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		path := make([]string, 0, len(fe.Path)+1)
		path = append(path, name)
		path = append(path, fe.Path...)

		return &FieldError{Op: fe.Op, Path: path, Err: fe.Err}
	}

	return &FieldError{Op: op, Path: []string{name}, Err: err}
}

// Field returns the dotted path of the failing field.
func (e *FieldError) Field() string {
	var sb strings.Builder
	for i, p := range e.Path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}

	return sb.String()
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Field(), e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
