package compress

import (
	"fmt"

	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/format"
)

// Compressor compresses a bank archive payload.
//
// The payload is a concatenation of fixed-size patch packets, which share long
// runs of identical header and reserved bytes and compress well.
type Compressor interface {
	// Compress returns the compressed form of data. The input slice is not
	// modified; the returned slice may alias it only for CompressionNone.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original payload, or an error if data is
	// corrupted or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression of an archive payload.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int
	CompressedSize int
}

// Ratio returns compressed size / original size, or 0 for an empty payload.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
//
// Returns:
//   - Codec: Shared codec instance, safe for concurrent use
//   - error: errs.ErrInvalidCompression for an unknown type
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02X)", errs.ErrInvalidCompression, compressionType, uint8(compressionType))
}

// Compress compresses data with the codec for compressionType and reports the
// resulting sizes.
func Compress(compressionType format.CompressionType, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression failed: %w", compressionType, err)
	}

	return out, Stats{Algorithm: compressionType, OriginalSize: len(data), CompressedSize: len(out)}, nil
}
