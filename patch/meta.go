package patch

import (
	"bytes"
	"fmt"

	"github.com/arloliu/ctpatch/errs"
)

// Text is a fixed-width byte string holding printable text, such as the patch
// name. It renders as a plain string in text encodings; when read back it is
// space-padded to NameLength, so an edited name need not keep its padding.
type Text []byte

func (t Text) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func (t *Text) UnmarshalText(b []byte) error {
	padded, err := padName(b)
	if err != nil {
		return err
	}
	*t = padded

	return nil
}

// SetName stores name space-padded to the 16-byte name field.
func (m *Meta) SetName(name string) error {
	b, err := padName([]byte(name))
	if err != nil {
		return err
	}
	m.Name = b

	return nil
}

func padName(name []byte) (Text, error) {
	if len(name) > NameLength {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d", errs.ErrNameTooLong, name, len(name), NameLength)
	}

	b := make(Text, NameLength)
	n := copy(b, name)
	for i := n; i < NameLength; i++ {
		b[i] = ' '
	}

	return b, nil
}

// DisplayName returns the patch name without its trailing padding.
func (m *Meta) DisplayName() string {
	return string(bytes.TrimRight(m.Name, " \x00"))
}
