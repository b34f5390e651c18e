// Package sysex frames MIDI System Exclusive messages.
//
// Framing is checked here, at the boundary, before a packet reaches a record
// codec: the codec itself never checks total length.
package sysex

import (
	"github.com/arloliu/ctpatch/errs"
)

const (
	Start byte = 0xF0
	End   byte = 0xF7
)

// IsRealtime reports whether b is a single-byte real-time status message.
// Real-time bytes may appear anywhere in a MIDI stream, including inside a
// SysEx message.
func IsRealtime(b byte) bool {
	return b >= 0xF8
}

// CheckFrame verifies that buf starts with Start, ends with End and, when want
// is positive, is exactly want bytes long.
func CheckFrame(buf []byte, want int) error {
	switch {
	case len(buf) < 2:
		return &errs.FramingError{Reason: "packet too short", Len: len(buf), Want: want}
	case want > 0 && len(buf) != want:
		return &errs.FramingError{Reason: "wrong packet length", Len: len(buf), Want: want}
	case buf[0] != Start:
		return &errs.FramingError{Reason: "missing start of exclusive", Len: len(buf)}
	case buf[len(buf)-1] != End:
		return &errs.FramingError{Reason: "missing end of exclusive", Len: len(buf)}
	}

	return nil
}

// Split returns the SysEx messages in stream in order. Real-time bytes are
// dropped wherever they occur and bytes outside a message are skipped. A
// message interrupted by another Start, or still open at the end of the
// stream, is a framing error.
//
// The returned messages do not alias stream.
func Split(stream []byte) ([][]byte, error) {
	var s Scanner

	msgs, err := s.Feed(stream)
	if err != nil {
		return msgs, err
	}
	if s.open {
		return msgs, &errs.FramingError{Reason: "unterminated message", Len: len(s.cur)}
	}

	return msgs, nil
}

// Scanner splits SysEx messages out of a byte stream that arrives in chunks,
// as read from a MIDI port.
type Scanner struct {
	cur  []byte
	open bool
}

// Feed consumes chunk and returns the messages completed by it. An
// interrupted message is dropped and reported as a framing error; scanning
// continues with the message that interrupted it.
func (s *Scanner) Feed(chunk []byte) ([][]byte, error) {
	var (
		out [][]byte
		err error
	)

	for _, b := range chunk {
		switch {
		case IsRealtime(b):
			continue
		case b == Start:
			if s.open && err == nil {
				err = &errs.FramingError{Reason: "unterminated message", Len: len(s.cur)}
			}
			s.cur = []byte{b}
			s.open = true
		case !s.open:
			continue
		default:
			s.cur = append(s.cur, b)
			if b == End {
				out = append(out, s.cur)
				s.cur = nil
				s.open = false
			}
		}
	}

	return out, err
}

// Pending reports the number of bytes of an open, incomplete message.
func (s *Scanner) Pending() int {
	return len(s.cur)
}

// Reset discards any incomplete message.
func (s *Scanner) Reset() {
	s.cur = nil
	s.open = false
}
