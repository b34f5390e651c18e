// Package patchtest provides patch fixtures for tests.
package patchtest

import "github.com/arloliu/ctpatch/patch"

var (
	sources = []patch.ModMatrixSource{
		patch.SourceDirect, patch.SourceVelocity, patch.SourceKeyboard, patch.SourceLfo1Plus,
		patch.SourceLfo1PlusMinus, patch.SourceLfo2Plus, patch.SourceLfo2PlusMinus,
		patch.SourceEnvAmp, patch.SourceEnvFilter,
	}
)

// destinations is the number of mod matrix destinations.
const destinations = 18

// Populated returns a valid patch in which every parameter byte holds a value
// that differs from its neighbors, so misplaced fields show up in a diff.
func Populated() *patch.Patch {
	p := &patch.Patch{
		Header:  patch.Header{SysEx: patch.StartOfExclusive, MfrID: patch.Raw{0x00, 0x20, 0x29}, ProdType: 1, ProdNum: patch.ProductTracks},
		Command: patch.ReplaceCurrentPatch{Location: 4, Reserved: 5},
		Meta: patch.Meta{
			Name:     patch.Text("Initial Patch   "),
			Category: 6,
			Genre:    7,
			Reserved: patch.Raw{0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x0F},
		},
		Voice: patch.Voice{PolyphonyMode: patch.Mono, PortamentoRate: 8, PreGlide: 9, KeyboardOctave: 10},
		Oscillators: []patch.Osc{
			{Wave: patch.OscAnaloguePulse, WaveInterpolate: 11, PulseWidthIndex: 12, VirtualSyncDepth: 13, Density: 14, DensityDetune: 15, Semitones: 16, Cents: 17, PitchBend: 18},
			{Wave: patch.OscDigitalNasty1, WaveInterpolate: 19, PulseWidthIndex: 20, VirtualSyncDepth: 21, Density: 22, DensityDetune: 23, Semitones: 24, Cents: 25, PitchBend: 26},
		},
		Mixer: patch.Mixer{Osc1Level: 27, Osc2Level: 28, RingModLevel12: 29, NoiseLevel: 30, PreFxLevel: 31, PostFxLevel: 32},
		Filter: patch.Filter{
			Routing: 33, Drive: 34, DriveType: patch.Diode, Type: patch.BandPass12dB,
			Frequency: 35, Track: 36, Resonance: 37, QNormalise: 38, Env2ToFreq: 39,
		},
		Envelopes: []patch.Envelope{
			{VelocityOrDelay: 40, Attack: 41, Decay: 42, Sustain: 43, Release: 44},
			{VelocityOrDelay: 45, Attack: 46, Decay: 47, Sustain: 48, Release: 49},
			{VelocityOrDelay: 50, Attack: 51, Decay: 52, Sustain: 53, Release: 54},
		},
		Lfos: []patch.Lfo{
			{
				Waveform: patch.LfoMinor7, PhaseOffset: 55, SlewRate: 56, Delay: 57, DelaySync: 58, Rate: 59, RateSync: 60,
				Flags: patch.LfoFlags{OneShot: true, CommonSync: true, FadeMode: patch.FadeOut},
			},
			{
				Waveform: patch.LfoMajor7, PhaseOffset: 61, SlewRate: 62, Delay: 63, DelaySync: 64, Rate: 65, RateSync: 66,
				Flags: patch.LfoFlags{KeySync: true, DelayTrigger: true, FadeMode: patch.GateIn},
			},
		},
		Fx: patch.Fx{
			DistortionLevel: 67, Reserved1: 68, ChorusLevel: 69, Reserved2: 70, Reserved3: 71,
			EqBassFrequency: 72, EqBassLevel: 73, EqMidFrequency: 74, EqMidLevel: 75,
			EqTrebleFrequency: 76, EqTrebleLevel: 77,
			Reserved4:              patch.Raw{0x01, 0, 0, 0, 0x0F},
			DistortionType:         patch.Valve,
			DistortionCompensation: 78, ChorusType: 79, ChorusRate: 80, ChorusRateSync: 81,
			ChorusFeedback: 82, ChorusModDepth: 83, ChorusDelay: 84,
		},
		Footer: patch.Footer{EOX: patch.EndOfExclusive},
	}

	p.ModMatrix = make([]patch.ModMatrix, patch.ModMatrixSlots)
	for i := range p.ModMatrix {
		p.ModMatrix[i] = patch.ModMatrix{
			Source1:     sources[(2*i)%len(sources)],
			Source2:     sources[(2*i+1)%len(sources)],
			Depth:       uint8(85 + i),
			Destination: patch.ModMatrixDestination(i % destinations),
		}
	}

	v := uint8(105)
	next := func() uint8 {
		out := v
		v = (v + 1) % 127
		return out
	}

	p.MacroKnobs = make([]patch.MacroKnob, patch.MacroKnobCount)
	for k := range p.MacroKnobs {
		knob := patch.MacroKnob{Position: next(), Ranges: make([]patch.MacroKnobRange, patch.MacroKnobRanges)}
		for r := range knob.Ranges {
			knob.Ranges[r] = patch.MacroKnobRange{
				Destination: patch.MacroKnobDestination(k*patch.MacroKnobRanges + r),
				StartPos:    next(),
				EndPos:      next(),
				Depth:       next(),
			}
		}
		p.MacroKnobs[k] = knob
	}

	return p
}
