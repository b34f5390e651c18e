// Package compress provides the compression codecs used by bank archives.
//
// A bank archive stores many patch packets back to back. Every packet repeats
// the same header bytes and most parameters sit in a narrow value range, so
// general-purpose compression typically shrinks a bank several times over.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): the payload is stored as is
//   - Zstd (format.CompressionZstd): best ratio, the default for archives
//   - S2 (format.CompressionS2): fast with a good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Codecs are looked up by type:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
//
// # Zstd Backends
//
// Zstd uses the pure-Go klauspost/compress implementation. Building with the
// cgo_zstd tag switches to the cgo binding valyala/gozstd; the two produce
// interchangeable frames.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Zstd and LZ4 keep
// their encoder state in sync.Pool instances.
package compress
