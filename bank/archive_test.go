package bank

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/patch/patchtest"
)

func testBank(t *testing.T, n int) []byte {
	t.Helper()

	patches := make([]*patch.Patch, n)
	for i := range patches {
		p := patchtest.Populated()
		require.NoError(t, p.Meta.SetName(fmt.Sprintf("patch %02d", i)))
		p.Filter.Type = patch.FilterTypes[i%len(patch.FilterTypes)]
		patches[i] = p
	}

	entries, err := Assign(patches, 0)
	require.NoError(t, err)

	bank, err := Build(context.Background(), entries, WithPackIndex(1))
	require.NoError(t, err)

	return bank
}

func TestArchiveHeaderSize(t *testing.T) {
	require.Equal(t, 20, ArchiveHeaderSize)
}

func TestArchiveRoundTrip(t *testing.T) {
	bank := testBank(t, 16)

	for _, ct := range format.CompressionTypes {
		t.Run(ct.String(), func(t *testing.T) {
			require := require.New(t)

			archive, stats, err := Archive(bank, WithCompression(ct))
			require.NoError(err)
			require.Equal(ct, stats.Algorithm)
			require.Equal(len(bank), stats.OriginalSize)
			require.Equal(ArchiveHeaderSize+stats.CompressedSize, len(archive))
			if ct != format.CompressionNone {
				require.Less(stats.CompressedSize, len(bank))
			}

			hdr, err := ReadArchiveHeader(archive)
			require.NoError(err)
			require.Equal(ct, hdr.Compression)
			require.Equal(uint16(16), hdr.Count)
			require.Equal(uint32(len(bank)), hdr.RawLength)

			back, err := Extract(archive)
			require.NoError(err)
			require.Equal(bank, back)
		})
	}
}

func TestArchiveErrors(t *testing.T) {
	_, _, err := Archive(nil)
	require.ErrorIs(t, err, errs.ErrEmptyBank)

	_, _, err = Archive([]byte{0xF0, 0x01})
	require.ErrorIs(t, err, errs.ErrFraming)

	_, _, err = Archive(testBank(t, 1), WithCompression(0))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestExtractRejects(t *testing.T) {
	bank := testBank(t, 4)

	good, _, err := Archive(bank, WithCompression(format.CompressionNone))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		target error
	}{
		{"truncated header", func(b []byte) []byte { return b[:10] }, errs.ErrInvalidArchive},
		{"magic", func(b []byte) []byte { b[0] = 'X'; return b }, errs.ErrInvalidArchive},
		{"version", func(b []byte) []byte { b[4] = 9; return b }, errs.ErrInvalidArchive},
		{"compression", func(b []byte) []byte { b[5] = 0x7F; return b }, errs.ErrInvalidCompression},
		{"raw length", func(b []byte) []byte { return b[:len(b)-1] }, errs.ErrInvalidArchive},
		{"payload byte", func(b []byte) []byte { b[ArchiveHeaderSize+20] ^= 0x01; return b }, errs.ErrChecksumMismatch},
		{"count", func(b []byte) []byte { b[6] = 5; return b }, errs.ErrInvalidArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(good))
			_, err := Extract(data)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestExtractCorruptZstd(t *testing.T) {
	archive, _, err := Archive(testBank(t, 4), WithCompression(format.CompressionZstd))
	require.NoError(t, err)

	archive[len(archive)-3] ^= 0xFF

	_, err = Extract(archive)
	require.Error(t, err)
}

func BenchmarkBuild(b *testing.B) {
	patches := make([]*patch.Patch, SlotCount)
	for i := range patches {
		patches[i] = patchtest.Populated()
	}
	entries, _ := Assign(patches, 0)

	for b.Loop() {
		_, _ = Build(context.Background(), entries)
	}
}
