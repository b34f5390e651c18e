// Package format defines the identifiers stored in bank archive headers.
package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/ctpatch/errs"
)

// CompressionType identifies the algorithm applied to a bank archive payload.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores packets uncompressed.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// CompressionTypes lists every supported compression type.
var CompressionTypes = []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression parses a compression name, case-insensitively.
func ParseCompression(s string) (CompressionType, error) {
	for _, c := range CompressionTypes {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, s)
}

func (c CompressionType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(c.String())), nil
}

func (c *CompressionType) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v

	return nil
}
