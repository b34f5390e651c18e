package generate

import "github.com/arloliu/ctpatch/patch"

// Osc1Wave sets the first oscillator's wave and pulse width index.
func Osc1Wave(w patch.OscWaveform, pulseWidth uint8) Mutator {
	return func(p *patch.Patch) {
		p.Oscillators[0].Wave = w
		p.Oscillators[0].PulseWidthIndex = pulseWidth
	}
}

// Osc2Wave sets the second oscillator's wave and mixer level.
func Osc2Wave(w patch.OscWaveform, level uint8) Mutator {
	return func(p *patch.Patch) {
		p.Oscillators[1].Wave = w
		p.Mixer.Osc2Level = level
	}
}

// TransposeOsc2 shifts the second oscillator by semitones.
func TransposeOsc2(semitones int8) Mutator {
	return func(p *patch.Patch) {
		p.Oscillators[1].Semitones = uint8(int8(p.Oscillators[1].Semitones) + semitones)
	}
}

// NoiseLevel sets the mixer noise level.
func NoiseLevel(level uint8) Mutator {
	return func(p *patch.Patch) {
		p.Mixer.NoiseLevel = level
	}
}

// Filter sets the filter type.
func Filter(ft patch.FilterType) Mutator {
	return func(p *patch.Patch) {
		p.Filter.Type = ft
	}
}

// ModRoute points mod matrix slot at dst, driven by src.
func ModRoute(slot int, src patch.ModMatrixSource, dst patch.ModMatrixDestination) Mutator {
	return func(p *patch.Patch) {
		p.ModMatrix[slot].Source1 = src
		p.ModMatrix[slot].Destination = dst
	}
}

// ModDestination changes only the destination of mod matrix slot.
func ModDestination(slot int, dst patch.ModMatrixDestination) Mutator {
	return func(p *patch.Patch) {
		p.ModMatrix[slot].Destination = dst
	}
}

// MacroDestination sets what range rng of macro knob knob drives.
// Knobs and ranges are numbered from zero.
func MacroDestination(knob, rng int, dst patch.MacroKnobDestination) Mutator {
	return func(p *patch.Patch) {
		p.MacroKnobs[knob].Ranges[rng].Destination = dst
	}
}
