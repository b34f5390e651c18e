package bank

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/ctpatch/codec"
	"github.com/arloliu/ctpatch/compress"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/internal/hash"
	"github.com/arloliu/ctpatch/sysex"
)

const (
	// ArchiveMagic opens every bank archive.
	ArchiveMagic   = "CTPB"
	ArchiveVersion = 1
)

// ArchiveHeader is the fixed header in front of a compressed bank.
//
// Layout, little-endian:
//
//	0-3   magic "CTPB"
//	4     version
//	5     compression type
//	6-7   packet count
//	8-11  uncompressed payload length
//	12-19 xxHash64 of the uncompressed payload
type ArchiveHeader struct {
	Magic       []byte
	Version     uint8
	Compression format.CompressionType
	Count       uint16
	RawLength   uint32
	Checksum    uint64
}

// ArchiveHeaderSchema is the codec of ArchiveHeader.
var ArchiveHeaderSchema = codec.Record[ArchiveHeader]("ArchiveHeader",
	codec.Bind("magic", codec.Bytes[[]byte]("4s"), func(h *ArchiveHeader) *[]byte { return &h.Magic }),
	codec.Scalar("version", func(h *ArchiveHeader) *uint8 { return &h.Version }),
	codec.Scalar("compression", func(h *ArchiveHeader) *format.CompressionType { return &h.Compression }),
	codec.Bind("count", codec.Layout[uint16]("<H"), func(h *ArchiveHeader) *uint16 { return &h.Count }),
	codec.Bind("raw_length", codec.Layout[uint32]("<I"), func(h *ArchiveHeader) *uint32 { return &h.RawLength }),
	codec.Bind("checksum", codec.Layout[uint64]("<Q"), func(h *ArchiveHeader) *uint64 { return &h.Checksum }),
)

// ArchiveHeaderSize is the encoded size of ArchiveHeader.
var ArchiveHeaderSize = ArchiveHeaderSchema.Size(ArchiveHeader{})

// Archive compresses a bank into an archive.
//
// bank must be a sequence of well-formed SysEx messages; the messages are not
// decoded, so an archive can carry any packets the synth accepts.
//
// Parameters:
//   - bank: Concatenated packets, as returned by Build
//   - opts: WithCompression, WithLogger
//
// Returns:
//   - []byte: Header followed by the compressed payload
//   - compress.Stats: Payload sizes before and after compression
//   - error: errs.ErrEmptyBank, a framing error, or a compression error
func Archive(bank []byte, opts ...Option) ([]byte, compress.Stats, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, compress.Stats{}, err
	}

	msgs, err := sysex.Split(bank)
	if err != nil {
		return nil, compress.Stats{}, err
	}
	if len(msgs) == 0 {
		return nil, compress.Stats{}, errs.ErrEmptyBank
	}
	if len(msgs) > 0xFFFF {
		return nil, compress.Stats{}, fmt.Errorf("%w: %d packets", errs.ErrInvalidArchive, len(msgs))
	}

	payload, stats, err := compress.Compress(cfg.compression, bank)
	if err != nil {
		return nil, compress.Stats{}, err
	}

	hdr := ArchiveHeader{
		Magic:       []byte(ArchiveMagic),
		Version:     ArchiveVersion,
		Compression: cfg.compression,
		Count:       uint16(len(msgs)),
		RawLength:   uint32(len(bank)),
		Checksum:    hash.Sum(bank),
	}

	out := make([]byte, 0, ArchiveHeaderSize+len(payload))
	out, err = ArchiveHeaderSchema.Append(out, hdr)
	if err != nil {
		return nil, compress.Stats{}, err
	}
	out = append(out, payload...)

	cfg.logger.Debug("archived bank",
		zap.Stringer("compression", cfg.compression),
		zap.Int("packets", len(msgs)),
		zap.Int("original", stats.OriginalSize),
		zap.Int("compressed", stats.CompressedSize))

	return out, stats, nil
}

// ReadArchiveHeader decodes the header of an archive.
func ReadArchiveHeader(data []byte) (ArchiveHeader, error) {
	hdr, err := codec.Decode[ArchiveHeader](ArchiveHeaderSchema, data)
	if err != nil {
		return ArchiveHeader{}, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	if !bytes.Equal(hdr.Magic, []byte(ArchiveMagic)) {
		return ArchiveHeader{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidArchive, hdr.Magic)
	}
	if hdr.Version != ArchiveVersion {
		return ArchiveHeader{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidArchive, hdr.Version)
	}

	return hdr, nil
}

// Extract reverses Archive and returns the bank.
//
// Returns:
//   - []byte: The concatenated packets
//   - error: errs.ErrInvalidArchive, errs.ErrInvalidCompression or
//     errs.ErrChecksumMismatch
func Extract(data []byte) ([]byte, error) {
	hdr, err := ReadArchiveHeader(data)
	if err != nil {
		return nil, err
	}

	c, err := compress.GetCodec(hdr.Compression)
	if err != nil {
		return nil, err
	}

	bank, err := c.Decompress(data[ArchiveHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	if len(bank) != int(hdr.RawLength) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d",
			errs.ErrInvalidArchive, len(bank), hdr.RawLength)
	}

	if sum := hash.Sum(bank); sum != hdr.Checksum {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, sum, hdr.Checksum)
	}

	msgs, err := sysex.Split(bank)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}
	if len(msgs) != int(hdr.Count) {
		return nil, fmt.Errorf("%w: %d packets, header says %d", errs.ErrInvalidArchive, len(msgs), hdr.Count)
	}

	return bank, nil
}
