package patch_test

import (
	"testing"

	"github.com/arloliu/ctpatch/patch"
	"github.com/stretchr/testify/require"
)

func TestEnumNames(t *testing.T) {
	require.Equal(t, "band_pass_12db", patch.BandPass12dB.String())
	require.Equal(t, "mono_ag", patch.MonoAutoGlide.String())
	require.Equal(t, "lfo_2_plus_minus", patch.SourceLfo2PlusMinus.String())
	require.Equal(t, "mod_matrix_07", patch.MacroModMatrix(7).String())
	require.Equal(t, "2511", patch.Lfo2511.String())
	require.Equal(t, "replace_patch", patch.CmdReplacePatch.String())

	// unnamed values render as numbers
	require.Equal(t, "2", patch.ModMatrixSource(2).String())
	require.Equal(t, "200", patch.FilterType(200).String())
}

func TestEnumUnmarshalText(t *testing.T) {
	var f patch.FilterType
	require.NoError(t, f.UnmarshalText([]byte("HIGH_PASS_24DB")))
	require.Equal(t, patch.HighPass24dB, f)

	require.NoError(t, f.UnmarshalText([]byte("3")))
	require.Equal(t, patch.BandPass12dB, f)

	require.Error(t, f.UnmarshalText([]byte("notch")))
	require.Error(t, f.UnmarshalText([]byte("256")))

	var d patch.MacroKnobDestination
	require.NoError(t, d.UnmarshalText([]byte("mod_matrix_20")))
	require.Equal(t, patch.MacroKnobDestination(70), d)

	var w patch.LfoWaveform
	require.NoError(t, w.UnmarshalText([]byte("4ths_x12")))
	require.Equal(t, patch.Lfo4thsX12, w)
}

func TestFilterTypes(t *testing.T) {
	require.Len(t, patch.FilterTypes, 6)
	for i, f := range patch.FilterTypes {
		require.Equal(t, patch.FilterType(i), f)
		require.True(t, f.Valid())
	}
	require.False(t, patch.FilterType(6).Valid())
}
