package generate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/patch/patchtest"
)

func TestProduct(t *testing.T) {
	require := require.New(t)

	base := patchtest.Populated()
	baseRes := base.Filter.Resonance

	dims := []Dimension{
		{Name: "filter", Choices: []Choice{
			{Bits: 0, Short: "lp", Mutators: []Mutator{Filter(patch.LowPass24dB)}},
			{Bits: 1, Short: "hp", Mutators: []Mutator{Filter(patch.HighPass24dB)}},
		}},
		{Name: "noise", Choices: []Choice{
			{Bits: 0, Short: "dry"},
			{Bits: 2, Short: "wet", Mutators: []Mutator{NoiseLevel(99)}},
		}},
	}

	variants, err := Product(base, "X ", dims...)
	require.NoError(err)
	require.Len(variants, 4)

	wantNames := []string{"X lp dry", "X hp dry", "X lp wet", "X hp wet"}
	for i, v := range variants {
		require.Equal(i, v.Index)
		require.Equal(wantNames[i], v.Patch.Meta.DisplayName())
		require.NoError(patch.Validate(v.Patch))
	}

	require.Equal(patch.HighPass24dB, variants[3].Patch.Filter.Type)
	require.Equal(uint8(99), variants[3].Patch.Mixer.NoiseLevel)
	require.Equal(patch.LowPass24dB, variants[0].Patch.Filter.Type)
	require.Equal(base.Mixer.NoiseLevel, variants[0].Patch.Mixer.NoiseLevel)

	// the base patch is untouched
	require.Equal(patch.BandPass12dB, base.Filter.Type)
	require.Equal(baseRes, base.Filter.Resonance)
	require.Equal("Initial Patch", base.Meta.DisplayName())
}

func TestProductSingleChoice(t *testing.T) {
	variants, err := Product(patch.New(), "Solo", Dimension{Name: "x", Choices: []Choice{{Short: ""}}})
	require.NoError(t, err)
	require.Len(t, variants, 1)
	require.Equal(t, "Solo", variants[0].Patch.Meta.DisplayName())
}

func TestProductErrors(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		dims   []Dimension
		target error
	}{
		{
			name:   "name too long",
			prefix: "A very long prefix ",
			dims:   []Dimension{{Name: "d", Choices: []Choice{{Short: "x"}}}},
			target: errs.ErrNameTooLong,
		},
		{
			name: "index collision",
			dims: []Dimension{
				{Name: "a", Choices: []Choice{{Bits: 0, Short: "a0"}, {Bits: 1, Short: "a1"}}},
				{Name: "b", Choices: []Choice{{Bits: 0, Short: "b0"}, {Bits: 1, Short: "b1"}}},
			},
			target: errs.ErrDuplicateSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Product(patch.New(), tt.prefix, tt.dims...)
			require.ErrorIs(t, err, tt.target)
		})
	}

	_, err := Product(patch.New(), "", Dimension{Name: "empty"})
	require.Error(t, err)
}

func TestFilterSweep(t *testing.T) {
	require := require.New(t)

	variants, err := FilterSweep(patchtest.Populated())
	require.NoError(err)
	require.Len(variants, len(patch.FilterTypes))

	for i, v := range variants {
		require.Equal(i, v.Index)
		require.Equal(patch.FilterTypes[i], v.Patch.Filter.Type)
		require.Equal(patch.FilterTypes[i].String(), v.Patch.Meta.DisplayName())
	}
}

func TestMacroReveal(t *testing.T) {
	require := require.New(t)

	base := patchtest.Populated()
	variants, err := MacroReveal(base)
	require.NoError(err)

	total := int(patch.MacroModMatrix(patch.ModMatrixSlots)) + 1
	require.Len(variants, (total+31)/32)

	seen := make(map[patch.MacroKnobDestination]int)
	for i, v := range variants {
		require.Equal(i, v.Index)
		require.NoError(patch.Validate(v.Patch))

		for k, knob := range v.Patch.MacroKnobs {
			require.Equal(base.MacroKnobs[k].Position, knob.Position)
			for r, rng := range knob.Ranges {
				want := i*32 + k*4 + r
				if want >= total {
					require.Equal(patch.MacroNoDestination, rng.Destination)
					continue
				}
				require.Equal(patch.MacroKnobDestination(want), rng.Destination)
				require.Equal(base.MacroKnobs[k].Ranges[r].StartPos, rng.StartPos)
				seen[rng.Destination]++
			}
		}
	}
	require.Len(seen, total)

	require.Equal("Macro 00-31", variants[0].Patch.Meta.DisplayName())
	require.Equal(patch.MacroKnobDestination(0), variants[0].Patch.MacroKnobs[0].Ranges[0].Destination)
	require.Equal(patch.MacroKnobDestination(33), variants[1].Patch.MacroKnobs[0].Ranges[1].Destination)
}

func TestEntries(t *testing.T) {
	require := require.New(t)

	variants, err := FilterSweep(patch.New())
	require.NoError(err)

	entries, err := Entries(variants, 8)
	require.NoError(err)
	require.Len(entries, 6)
	require.Equal(uint8(8), entries[0].Slot)
	require.Equal(uint8(13), entries[5].Slot)
	require.Same(variants[5].Patch, entries[5].Patch)

	_, err = Entries(variants, 125)
	require.ErrorIs(err, errs.ErrSlotOutOfRange)
}

func TestPresets(t *testing.T) {
	require := require.New(t)

	require.Equal([]string{"bass", "pad"}, PresetNames())

	_, ok := LookupPreset("lead")
	require.False(ok)

	bass, ok := LookupPreset("bass")
	require.True(ok)

	variants, err := bass.Generate(patchtest.Populated())
	require.NoError(err)
	require.Len(variants, 8)

	squSyn := variants[5]
	require.Equal("squ syn", squSyn.Patch.Meta.DisplayName())
	require.Equal(patch.OscPulseWidth, squSyn.Patch.Oscillators[0].Wave)
	require.Equal(uint8(0x40), squSyn.Patch.Oscillators[0].PulseWidthIndex)
	require.Equal(patch.MacroO1VsyncDepth, squSyn.Patch.MacroKnobs[7].Ranges[0].Destination)
	require.Equal(patch.DestFilterFrequency, squSyn.Patch.ModMatrix[0].Destination)

	sync := variants[2]
	require.Equal("sync dst", sync.Patch.Meta.DisplayName())
	require.Equal(patch.OscTriangle, sync.Patch.Oscillators[1].Wave)
	require.Equal(uint8(127), sync.Patch.Mixer.Osc2Level)

	pad, ok := LookupPreset("pad")
	require.True(ok)

	variants, err = pad.Generate(patchtest.Populated())
	require.NoError(err)
	require.Len(variants, 8)
	require.Equal("Pad squ 5 quiet", variants[7].Patch.Meta.DisplayName())
	require.Equal(patchtest.Populated().Oscillators[1].Semitones+7, variants[7].Patch.Oscillators[1].Semitones)

	entries, err := Entries(variants, pad.Start)
	require.NoError(err)
	require.Equal(uint8(39), entries[7].Slot)
}
