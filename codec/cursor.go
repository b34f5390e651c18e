package codec

import (
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/layout"
)

// Cursor is a forward-only read position over an immutable byte buffer.
//
// A Cursor is owned by a single decode call and must not be shared between
// goroutines. Slices returned by Read alias the underlying buffer; codecs that
// keep bytes beyond the decode call copy them.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int {
	return c.pos
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Read consumes exactly n bytes.
//
// Returns:
//   - []byte: the consumed span, aliasing the buffer
//   - error: *errs.UnderrunError if fewer than n bytes remain; the cursor is not advanced
func (c *Cursor) Read(n int) ([]byte, error) {
	b, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.pos += n

	return b, nil
}

// ReadLayout consumes the number of bytes described by l.
func (c *Cursor) ReadLayout(l layout.Layout) ([]byte, error) {
	return c.Read(l.Width)
}

// Peek returns the next n bytes without consuming them.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &errs.UnderrunError{Offset: c.pos, Need: n, Have: c.Remaining()}
	}

	return c.buf[c.pos : c.pos+n], nil
}
