package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// enumTable maps the byte values of one enumeration to their names.
type enumTable[E ~uint8] struct {
	kind   string
	names  map[E]string
	values map[string]E
}

func newEnum[E ~uint8](kind string, names map[E]string) enumTable[E] {
	values := make(map[string]E, len(names))
	for v, n := range names {
		values[n] = v
	}

	return enumTable[E]{kind: kind, names: names, values: values}
}

// name returns the name of v, or its decimal value when v has no name. Unnamed
// values are legal in the byte stream and survive a round trip.
func (t enumTable[E]) name(v E) string {
	if n, ok := t.names[v]; ok {
		return n
	}

	return strconv.Itoa(int(v))
}

func (t enumTable[E]) parse(s string) (E, error) {
	if v, ok := t.values[strings.ToLower(s)]; ok {
		return v, nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown %s %q", t.kind, s)
	}

	return E(n), nil
}

// valid reports whether v has a name.
func (t enumTable[E]) valid(v E) bool {
	_, ok := t.names[v]
	return ok
}

// SysexCommand is the command byte following the packet header.
type SysexCommand uint8

const (
	CmdReplaceCurrentPatch     SysexCommand = 0x00
	CmdReplacePatch            SysexCommand = 0x01
	CmdRequestDumpCurrentPatch SysexCommand = 0x40
)

var sysexCommandNames = newEnum("sysex command", map[SysexCommand]string{
	CmdReplaceCurrentPatch:     "replace_current_patch",
	CmdReplacePatch:            "replace_patch",
	CmdRequestDumpCurrentPatch: "request_dump_current_patch",
})

func (c SysexCommand) String() string { return sysexCommandNames.name(c) }

func (c SysexCommand) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *SysexCommand) UnmarshalText(b []byte) error {
	v, err := sysexCommandNames.parse(string(b))
	*c = v

	return err
}

// PolyphonyMode is the voice allocation mode.
type PolyphonyMode uint8

const (
	Mono PolyphonyMode = iota
	MonoAutoGlide
	Poly
)

var polyphonyModeNames = newEnum("polyphony mode", map[PolyphonyMode]string{
	Mono:          "mono",
	MonoAutoGlide: "mono_ag",
	Poly:          "poly",
})

func (m PolyphonyMode) String() string { return polyphonyModeNames.name(m) }

func (m PolyphonyMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PolyphonyMode) UnmarshalText(b []byte) error {
	v, err := polyphonyModeNames.parse(string(b))
	*m = v

	return err
}

// OscWaveform is an oscillator wave table.
type OscWaveform uint8

const (
	OscSine OscWaveform = iota
	OscTriangle
	OscSawtooth
	OscSaw91PW
	OscSaw82PW
	OscSaw73PW
	OscSaw64PW
	OscSaw55PW
	OscSaw46PW
	OscSaw37PW
	OscSaw28PW
	OscSaw19PW
	OscPulseWidth
	OscSquare
	OscSineTable
	OscAnaloguePulse
	OscAnalogueSync
	OscTriangleSawBlend
	OscDigitalNasty1
	OscDigitalNasty2
	OscDigitalSawSquare
	OscDigitalVocal1
	OscDigitalVocal2
	OscDigitalVocal3
	OscDigitalVocal4
	OscDigitalVocal5
	OscDigitalVocal6
	OscRandomCollection1
	OscRandomCollection2
	OscRandomCollection3
)

var oscWaveformNames = newEnum("oscillator waveform", map[OscWaveform]string{
	OscSine:              "sine",
	OscTriangle:          "triangle",
	OscSawtooth:          "sawtooth",
	OscSaw91PW:           "saw_9_1_pw",
	OscSaw82PW:           "saw_8_2_pw",
	OscSaw73PW:           "saw_7_3_pw",
	OscSaw64PW:           "saw_6_4_pw",
	OscSaw55PW:           "saw_5_5_pw",
	OscSaw46PW:           "saw_4_6_pw",
	OscSaw37PW:           "saw_3_7_pw",
	OscSaw28PW:           "saw_2_8_pw",
	OscSaw19PW:           "saw_1_9_pw",
	OscPulseWidth:        "pulse_width",
	OscSquare:            "square",
	OscSineTable:         "sine_table",
	OscAnaloguePulse:     "analogue_pulse",
	OscAnalogueSync:      "analogue_sync",
	OscTriangleSawBlend:  "triangle_saw_blend",
	OscDigitalNasty1:     "digital_nasty_1",
	OscDigitalNasty2:     "digital_nasty_2",
	OscDigitalSawSquare:  "digital_saw_square",
	OscDigitalVocal1:     "digital_vocal_1",
	OscDigitalVocal2:     "digital_vocal_2",
	OscDigitalVocal3:     "digital_vocal_3",
	OscDigitalVocal4:     "digital_vocal_4",
	OscDigitalVocal5:     "digital_vocal_5",
	OscDigitalVocal6:     "digital_vocal_6",
	OscRandomCollection1: "random_collection_1",
	OscRandomCollection2: "random_collection_2",
	OscRandomCollection3: "random_collection_3",
})

func (w OscWaveform) String() string { return oscWaveformNames.name(w) }

func (w OscWaveform) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *OscWaveform) UnmarshalText(b []byte) error {
	v, err := oscWaveformNames.parse(string(b))
	*w = v

	return err
}

// LfoWaveform is an LFO shape.
type LfoWaveform uint8

const (
	LfoSine LfoWaveform = iota
	LfoTriangle
	LfoSawtooth
	LfoSquare
	LfoRandomSH
	LfoTimeSH
	LfoPianoEnvelope
	LfoSequence1
	LfoSequence2
	LfoSequence3
	LfoSequence4
	LfoSequence5
	LfoSequence6
	LfoSequence7
	LfoAlternative1
	LfoAlternative2
	LfoAlternative3
	LfoAlternative4
	LfoAlternative5
	LfoAlternative6
	LfoAlternative7
	LfoAlternative8
	LfoChromatic
	LfoChromatic16
	LfoMajor
	LfoMajor7
	LfoMinor7
	LfoMinArp1
	LfoMinArp2
	LfoDiminished
	LfoDecMinor
	LfoMinor3rd
	LfoPedal
	Lfo4ths
	Lfo4thsX12
	Lfo1625Maj
	Lfo1625Min
	Lfo2511
)

var lfoWaveformNames = newEnum("LFO waveform", map[LfoWaveform]string{
	LfoSine:          "sine",
	LfoTriangle:      "triangle",
	LfoSawtooth:      "sawtooth",
	LfoSquare:        "square",
	LfoRandomSH:      "random_s_h",
	LfoTimeSH:        "time_s_h",
	LfoPianoEnvelope: "piano_envelope",
	LfoSequence1:     "sequence_1",
	LfoSequence2:     "sequence_2",
	LfoSequence3:     "sequence_3",
	LfoSequence4:     "sequence_4",
	LfoSequence5:     "sequence_5",
	LfoSequence6:     "sequence_6",
	LfoSequence7:     "sequence_7",
	LfoAlternative1:  "alternative_1",
	LfoAlternative2:  "alternative_2",
	LfoAlternative3:  "alternative_3",
	LfoAlternative4:  "alternative_4",
	LfoAlternative5:  "alternative_5",
	LfoAlternative6:  "alternative_6",
	LfoAlternative7:  "alternative_7",
	LfoAlternative8:  "alternative_8",
	LfoChromatic:     "chromatic",
	LfoChromatic16:   "chromatic_16",
	LfoMajor:         "major",
	LfoMajor7:        "major_7",
	LfoMinor7:        "minor_7",
	LfoMinArp1:       "min_arp_1",
	LfoMinArp2:       "min_arp_2",
	LfoDiminished:    "diminished",
	LfoDecMinor:      "dec_minor",
	LfoMinor3rd:      "minor_3rd",
	LfoPedal:         "pedal",
	Lfo4ths:          "4ths",
	Lfo4thsX12:       "4ths_x12",
	Lfo1625Maj:       "1625_maj",
	Lfo1625Min:       "1625_min",
	Lfo2511:          "2511",
})

func (w LfoWaveform) String() string { return lfoWaveformNames.name(w) }

func (w LfoWaveform) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *LfoWaveform) UnmarshalText(b []byte) error {
	v, err := lfoWaveformNames.parse(string(b))
	*w = v

	return err
}

// LfoFadeMode is the 4-bit fade mode packed into the LFO flags byte.
type LfoFadeMode uint8

const (
	FadeIn LfoFadeMode = iota
	FadeOut
	GateIn
	GateOut
)

var lfoFadeModeNames = newEnum("LFO fade mode", map[LfoFadeMode]string{
	FadeIn:  "fade_in",
	FadeOut: "fade_out",
	GateIn:  "gate_in",
	GateOut: "gate_out",
})

func (m LfoFadeMode) String() string { return lfoFadeModeNames.name(m) }

func (m LfoFadeMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *LfoFadeMode) UnmarshalText(b []byte) error {
	v, err := lfoFadeModeNames.parse(string(b))
	*m = v

	return err
}

// MacroKnobDestination is the parameter a macro knob range drives.
type MacroKnobDestination uint8

const (
	MacroNoDestination MacroKnobDestination = iota
	MacroPortamentoRate
	MacroPostFxVolume
	MacroO1WaveInterpolate
	MacroO1PulseWidthIndex
	MacroO1VsyncDepth
	MacroO1Density
	MacroO1DensityDetune
	MacroO1SemitonesTune
	MacroO1CentsTune
	MacroO2WaveInterpolate
	MacroO2PulseWidthIndex
	MacroO2VsyncDepth
	MacroO2Density
	MacroO2DensityDetune
	MacroO2SemitonesTune
	MacroO2CentsTune
	MacroOsc1Volume
	MacroOsc2Volume
	MacroRingVolume
	MacroNoiseVolume
	MacroCutoffFrequency
	MacroResonance
	MacroDrive
	MacroKeyTrack
	MacroEnv2Mod
	MacroEnv1Attack
	MacroEnv1Decay
	MacroEnv1Sustain
	MacroEnv1Release
	MacroEnv2Attack
	MacroEnv2Decay
	MacroEnv2Sustain
	MacroEnv2Release
	MacroEnv3Delay
	MacroEnv3Attack
	MacroEnv3Decay
	MacroEnv3Sustain
	MacroEnv3Release
	MacroLfo1Rate
	MacroLfo1Sync
	MacroLfo1Slew
	MacroLfo2Rate
	MacroLfo2Sync
	MacroLfo2Slew
	MacroDistortionLevel
	MacroChorusLevel
	MacroChorusRate
	MacroChorusFeedback
	MacroChorusDepth
	MacroChorusDelay
	MacroModMatrix01
)

// MacroModMatrix returns the destination for mod matrix slot n (1 to 20).
func MacroModMatrix(n int) MacroKnobDestination {
	return MacroModMatrix01 + MacroKnobDestination(n-1)
}

var macroKnobDestinationNames = newEnum("macro knob destination", func() map[MacroKnobDestination]string {
	m := map[MacroKnobDestination]string{
		MacroNoDestination:     "no_destination",
		MacroPortamentoRate:    "portamento_rate",
		MacroPostFxVolume:      "post_fx_volume",
		MacroO1WaveInterpolate: "o1_wave_interpolate",
		MacroO1PulseWidthIndex: "o1_pulse_width_index",
		MacroO1VsyncDepth:      "o1_vsync_depth",
		MacroO1Density:         "o1_density",
		MacroO1DensityDetune:   "o1_density_detune",
		MacroO1SemitonesTune:   "o1_semitones_tune",
		MacroO1CentsTune:       "o1_cents_tune",
		MacroO2WaveInterpolate: "o2_wave_interpolate",
		MacroO2PulseWidthIndex: "o2_pulse_width_index",
		MacroO2VsyncDepth:      "o2_vsync_depth",
		MacroO2Density:         "o2_density",
		MacroO2DensityDetune:   "o2_density_detune",
		MacroO2SemitonesTune:   "o2_semitones_tune",
		MacroO2CentsTune:       "o2_cents_tune",
		MacroOsc1Volume:        "osc1_volume",
		MacroOsc2Volume:        "osc2_volume",
		MacroRingVolume:        "ring_volume",
		MacroNoiseVolume:       "noise_volume",
		MacroCutoffFrequency:   "cutoff_frequency",
		MacroResonance:         "resonance",
		MacroDrive:             "drive",
		MacroKeyTrack:          "key_track",
		MacroEnv2Mod:           "env2_mod",
		MacroEnv1Attack:        "env1_attack",
		MacroEnv1Decay:         "env1_decay",
		MacroEnv1Sustain:       "env1_sustain",
		MacroEnv1Release:       "env1_release",
		MacroEnv2Attack:        "env2_attack",
		MacroEnv2Decay:         "env2_decay",
		MacroEnv2Sustain:       "env2_sustain",
		MacroEnv2Release:       "env2_release",
		MacroEnv3Delay:         "env3_delay",
		MacroEnv3Attack:        "env3_attack",
		MacroEnv3Decay:         "env3_decay",
		MacroEnv3Sustain:       "env3_sustain",
		MacroEnv3Release:       "env3_release",
		MacroLfo1Rate:          "lfo1_rate",
		MacroLfo1Sync:          "lfo1_sync",
		MacroLfo1Slew:          "lfo1_slew",
		MacroLfo2Rate:          "lfo2_rate",
		MacroLfo2Sync:          "lfo2_sync",
		MacroLfo2Slew:          "lfo2_slew",
		MacroDistortionLevel:   "distortion_level",
		MacroChorusLevel:       "chorus_level",
		MacroChorusRate:        "chorus_rate",
		MacroChorusFeedback:    "chorus_feedback",
		MacroChorusDepth:       "chorus_depth",
		MacroChorusDelay:       "chorus_delay",
	}
	for n := 1; n <= ModMatrixSlots; n++ {
		m[MacroModMatrix(n)] = fmt.Sprintf("mod_matrix_%02d", n)
	}

	return m
}())

func (d MacroKnobDestination) String() string { return macroKnobDestinationNames.name(d) }

func (d MacroKnobDestination) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *MacroKnobDestination) UnmarshalText(b []byte) error {
	v, err := macroKnobDestinationNames.parse(string(b))
	*d = v

	return err
}

// ModMatrixSource is a modulation source. Values 1 to 3 are unused.
type ModMatrixSource uint8

const (
	SourceDirect        ModMatrixSource = 0
	SourceVelocity      ModMatrixSource = 4
	SourceKeyboard      ModMatrixSource = 5
	SourceLfo1Plus      ModMatrixSource = 6
	SourceLfo1PlusMinus ModMatrixSource = 7
	SourceLfo2Plus      ModMatrixSource = 8
	SourceLfo2PlusMinus ModMatrixSource = 9
	SourceEnvAmp        ModMatrixSource = 10
	SourceEnvFilter     ModMatrixSource = 11
)

var modMatrixSourceNames = newEnum("mod matrix source", map[ModMatrixSource]string{
	SourceDirect:        "direct",
	SourceVelocity:      "velocity",
	SourceKeyboard:      "keyboard",
	SourceLfo1Plus:      "lfo_1_plus",
	SourceLfo1PlusMinus: "lfo_1_plus_minus",
	SourceLfo2Plus:      "lfo_2_plus",
	SourceLfo2PlusMinus: "lfo_2_plus_minus",
	SourceEnvAmp:        "env_amp",
	SourceEnvFilter:     "env_filter",
})

func (s ModMatrixSource) String() string { return modMatrixSourceNames.name(s) }

func (s ModMatrixSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ModMatrixSource) UnmarshalText(b []byte) error {
	v, err := modMatrixSourceNames.parse(string(b))
	*s = v

	return err
}

// ModMatrixDestination is a modulation target.
type ModMatrixDestination uint8

const (
	DestOsc1And2Pitch ModMatrixDestination = iota
	DestOsc1Pitch
	DestOsc2Pitch
	DestOsc1VSync
	DestOsc2VSync
	DestOsc1PulseWidthIndex
	DestOsc2PulseWidthIndex
	DestOsc1Level
	DestOsc2Level
	DestNoiseLevel
	DestRingModulationLevel
	DestFilterDriveAmount
	DestFilterFrequency
	DestFilterResonance
	DestLfo1Rate
	DestLfo2Rate
	DestAmpEnvelopeDecay
	DestFilterEnvelopeDecay
)

var modMatrixDestinationNames = newEnum("mod matrix destination", map[ModMatrixDestination]string{
	DestOsc1And2Pitch:       "osc_1_and_2_pitch",
	DestOsc1Pitch:           "osc_1_pitch",
	DestOsc2Pitch:           "osc_2_pitch",
	DestOsc1VSync:           "osc_1_v_sync",
	DestOsc2VSync:           "osc_2_v_sync",
	DestOsc1PulseWidthIndex: "osc_1_pulse_width_index",
	DestOsc2PulseWidthIndex: "osc_2_pulse_width_index",
	DestOsc1Level:           "osc_1_level",
	DestOsc2Level:           "osc_2_level",
	DestNoiseLevel:          "noise_level",
	DestRingModulationLevel: "ring_modulation_level",
	DestFilterDriveAmount:   "filter_drive_amount",
	DestFilterFrequency:     "filter_frequency",
	DestFilterResonance:     "filter_resonance",
	DestLfo1Rate:            "lfo_1_rate",
	DestLfo2Rate:            "lfo_2_rate",
	DestAmpEnvelopeDecay:    "amp_envelope_decay",
	DestFilterEnvelopeDecay: "filter_envelope_decay",
})

func (d ModMatrixDestination) String() string { return modMatrixDestinationNames.name(d) }

func (d ModMatrixDestination) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *ModMatrixDestination) UnmarshalText(b []byte) error {
	v, err := modMatrixDestinationNames.parse(string(b))
	*d = v

	return err
}

// DistortionType is the character of the filter drive and the FX distortion.
type DistortionType uint8

const (
	Diode DistortionType = iota
	Valve
	Clipper
	CrossOver
	Rectifier
	BitReducer
	RateReducer
)

var distortionTypeNames = newEnum("distortion type", map[DistortionType]string{
	Diode:       "diode",
	Valve:       "valve",
	Clipper:     "clipper",
	CrossOver:   "cross_over",
	Rectifier:   "rectifier",
	BitReducer:  "bit_reducer",
	RateReducer: "rate_reducer",
})

func (d DistortionType) String() string { return distortionTypeNames.name(d) }

func (d DistortionType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DistortionType) UnmarshalText(b []byte) error {
	v, err := distortionTypeNames.parse(string(b))
	*d = v

	return err
}

// FilterType is the filter response.
type FilterType uint8

const (
	LowPass12dB FilterType = iota
	LowPass24dB
	BandPass6dB
	BandPass12dB
	HighPass12dB
	HighPass24dB
)

var filterTypeNames = newEnum("filter type", map[FilterType]string{
	LowPass12dB:  "low_pass_12db",
	LowPass24dB:  "low_pass_24db",
	BandPass6dB:  "band_pass_6db",
	BandPass12dB: "band_pass_12db",
	HighPass12dB: "high_pass_12db",
	HighPass24dB: "high_pass_24db",
})

// FilterTypes lists every filter type in value order.
var FilterTypes = []FilterType{LowPass12dB, LowPass24dB, BandPass6dB, BandPass12dB, HighPass12dB, HighPass24dB}

func (f FilterType) String() string { return filterTypeNames.name(f) }

func (f FilterType) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FilterType) UnmarshalText(b []byte) error {
	v, err := filterTypeNames.parse(string(b))
	*f = v

	return err
}

// Valid reports whether f is a known filter type.
func (f FilterType) Valid() bool { return filterTypeNames.valid(f) }
