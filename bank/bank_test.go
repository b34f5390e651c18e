package bank

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/patch/patchtest"
)

func namedPatch(t *testing.T, name string, ft patch.FilterType) *patch.Patch {
	t.Helper()

	p := patchtest.Populated()
	require.NoError(t, p.Meta.SetName(name))
	p.Filter.Type = ft

	return p
}

func TestAssign(t *testing.T) {
	require := require.New(t)

	patches := []*patch.Patch{patch.New(), patch.New(), patch.New()}

	entries, err := Assign(patches, 5)
	require.NoError(err)
	require.Len(entries, 3)
	for i, e := range entries {
		require.Equal(uint8(5+i), e.Slot)
		require.Same(patches[i], e.Patch)
	}

	_, err = Assign(patches, 126)
	require.ErrorIs(err, errs.ErrSlotOutOfRange)

	_, err = Assign(patches, 125)
	require.NoError(err)
}

func TestBuildParse(t *testing.T) {
	require := require.New(t)

	entries := []Entry{
		{Slot: 3, Patch: namedPatch(t, "three", patch.HighPass24dB)},
		{Slot: 0, Patch: namedPatch(t, "zero", patch.LowPass12dB)},
		{Slot: 1, Patch: namedPatch(t, "one", patch.BandPass6dB)},
	}

	bank, err := Build(context.Background(), entries,
		WithPackIndex(2), WithWorkers(2), WithLogger(zaptest.NewLogger(t)))
	require.NoError(err)
	require.Len(bank, 3*352)

	parsed, err := Parse(bank)
	require.NoError(err)
	require.Len(parsed, 3)

	wantOrder := []uint8{0, 1, 3}
	byslot := map[uint8]*patch.Patch{}
	for _, e := range entries {
		byslot[e.Slot] = e.Patch
	}

	for i, e := range parsed {
		require.Equal(wantOrder[i], e.Slot)
		require.Equal(patch.ReplacePatch{PackIndex: 2, PatchIndex: e.Slot}, e.Patch.Command)
		require.Empty(cmp.Diff(byslot[e.Slot].StoreAt(2, e.Slot), e.Patch))
	}

	// the inputs keep their own command
	for _, e := range entries {
		require.IsType(patch.ReplaceCurrentPatch{}, e.Patch.Command)
	}
}

func TestBuildErrors(t *testing.T) {
	invalid := patchtest.Populated()
	invalid.Footer.EOX = 0

	tests := []struct {
		name    string
		entries []Entry
		opts    []Option
		target  error
	}{
		{name: "empty", target: errs.ErrEmptyBank},
		{name: "slot range", entries: []Entry{{Slot: SlotCount, Patch: patch.New()}}, target: errs.ErrSlotOutOfRange},
		{
			name:    "duplicate slot",
			entries: []Entry{{Slot: 4, Patch: patch.New()}, {Slot: 4, Patch: patch.New()}},
			target:  errs.ErrDuplicateSlot,
		},
		{
			name:    "invalid patch",
			entries: []Entry{{Slot: 0, Patch: patch.New()}, {Slot: 1, Patch: invalid}},
			target:  errs.ErrValidation,
		},
		{
			name:    "compression option",
			entries: []Entry{{Slot: 0, Patch: patch.New()}},
			opts:    []Option{WithCompression(0x7F)},
			target:  errs.ErrInvalidCompression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(context.Background(), tt.entries, tt.opts...)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestBuildWorkersOption(t *testing.T) {
	_, err := Build(context.Background(), []Entry{{Patch: patch.New()}}, WithWorkers(0))
	require.Error(t, err)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries, err := Assign([]*patch.Patch{patch.New(), patch.New()}, 0)
	require.NoError(t, err)

	_, err = Build(ctx, entries)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseCurrentPatches(t *testing.T) {
	require := require.New(t)

	a, err := ctpatch.Encode(namedPatch(t, "a", patch.LowPass24dB))
	require.NoError(err)
	b, err := ctpatch.Encode(namedPatch(t, "b", patch.HighPass12dB))
	require.NoError(err)

	stream := append(append(append([]byte{}, a...), 0xF8), b...)

	entries, err := Parse(stream)
	require.NoError(err)
	require.Len(entries, 2)
	require.Equal(uint8(0), entries[0].Slot)
	require.Equal(uint8(1), entries[1].Slot)
	require.Equal("b", entries[1].Patch.Meta.DisplayName())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil)
	require.ErrorIs(t, err, errs.ErrEmptyBank)

	pkt, err := ctpatch.Encode(patch.New())
	require.NoError(t, err)
	pkt[2] = 0x21

	_, err = Parse(pkt)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Contains(t, err.Error(), "packet 0")

	_, err = Parse(pkt[:100])
	require.ErrorIs(t, err, errs.ErrFraming)
}

func TestParseSlotErrors(t *testing.T) {
	encode := func(p *patch.Patch) []byte {
		pkt, err := ctpatch.Encode(p)
		require.NoError(t, err)

		return pkt
	}
	cat := func(pkts ...[]byte) []byte {
		var out []byte
		for _, p := range pkts {
			out = append(out, p...)
		}

		return out
	}

	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{
			name:   "stored slot out of range",
			data:   cat(encode(patch.New().StoreAt(0, 200)), encode(patch.New().StoreAt(0, 200))),
			target: errs.ErrSlotOutOfRange,
		},
		{
			name:   "same stored slot twice",
			data:   cat(encode(patch.New().StoreAt(0, 5)), encode(patch.New().StoreAt(1, 5))),
			target: errs.ErrDuplicateSlot,
		},
		{
			name:   "stored slot clashes with position",
			data:   cat(encode(patch.New()), encode(patch.New().StoreAt(0, 0))),
			target: errs.ErrDuplicateSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseThenBuild(t *testing.T) {
	require := require.New(t)

	var data []byte
	for i, slot := range []uint8{127, 9} {
		pkt, err := ctpatch.Encode(namedPatch(t, string(rune('a'+i)), patch.LowPass12dB).StoreAt(4, slot))
		require.NoError(err)
		data = append(data, pkt...)
	}

	entries, err := Parse(data)
	require.NoError(err)

	rebuilt, err := Build(context.Background(), entries, WithPackIndex(4))
	require.NoError(err)

	back, err := Parse(rebuilt)
	require.NoError(err)
	require.Equal(uint8(9), back[0].Slot)
	require.Equal(uint8(127), back[1].Slot)
}

func TestFingerprint(t *testing.T) {
	require := require.New(t)

	p := patchtest.Populated()

	fp, err := Fingerprint(p)
	require.NoError(err)

	stored, err := Fingerprint(p.StoreAt(1, 9))
	require.NoError(err)
	require.Equal(fp, stored)

	changed := p.Clone()
	changed.Filter.Resonance++
	other, err := Fingerprint(changed)
	require.NoError(err)
	require.NotEqual(fp, other)

	bad := p.Clone()
	bad.Oscillators = bad.Oscillators[:1]
	_, err = Fingerprint(bad)
	require.ErrorIs(err, errs.ErrValidation)
}

func TestDedup(t *testing.T) {
	require := require.New(t)

	a := namedPatch(t, "a", patch.LowPass12dB)
	b := namedPatch(t, "b", patch.LowPass12dB)

	entries := []Entry{
		{Slot: 0, Patch: a},
		{Slot: 1, Patch: b},
		{Slot: 2, Patch: a.StoreAt(0, 2)},
		{Slot: 3, Patch: a.Clone()},
	}

	core, logs := observer.New(zap.DebugLevel)

	uniq, stats, err := Dedup(entries, WithLogger(zap.New(core)))
	require.NoError(err)
	require.Len(uniq, 2)
	require.Equal(uint8(0), uniq[0].Slot)
	require.Equal(uint8(1), uniq[1].Slot)
	require.Equal(DedupStats{Kept: 2, Dropped: 2}, stats)

	require.Equal(1, logs.FilterMessage("deduplicated bank").Len())
	require.Zero(logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestDedupNilLogger(t *testing.T) {
	uniq, stats, err := Dedup([]Entry{{Slot: 0, Patch: patch.New()}}, WithLogger(nil))
	require.NoError(t, err)
	require.Len(t, uniq, 1)
	require.Equal(t, DedupStats{Kept: 1}, stats)
}

func TestDedupEncodeError(t *testing.T) {
	bad := patch.New()
	bad.Footer.EOX = 0

	_, _, err := Dedup([]Entry{{Slot: 3, Patch: bad}})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Contains(t, err.Error(), "slot 3")
}
