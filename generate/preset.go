package generate

import (
	"slices"

	"github.com/samber/lo"

	"github.com/arloliu/ctpatch/patch"
)

// Preset is a named variant family with its place in a pack.
type Preset struct {
	Name   string
	Prefix string
	// Start is the slot of the variant with index 0.
	Start      uint8
	Dimensions []Dimension
}

// Generate applies the preset to base.
func (p Preset) Generate(base *patch.Patch) ([]Variant, error) {
	return Product(base, p.Prefix, p.Dimensions...)
}

// Bass varies oscillator shape with a matching LFO route, and what the last
// macro knob controls.
var Bass = Preset{
	Name: "bass",
	Dimensions: []Dimension{
		{
			Name: "shape",
			Choices: []Choice{
				{Bits: 0b000, Short: "saw", Mutators: []Mutator{Osc1Wave(patch.OscSawtooth, 0), lfoFilter}},
				{Bits: 0b001, Short: "squ", Mutators: []Mutator{Osc1Wave(patch.OscPulseWidth, 0x40), lfoFilter}},
				{Bits: 0b010, Short: "sync", Mutators: []Mutator{oscSineTriangle, ModRoute(0, patch.SourceLfo1Plus, patch.DestOsc1VSync)}},
				{Bits: 0b011, Short: "voc", Mutators: []Mutator{Osc1Wave(patch.OscDigitalVocal6, 0), ModDestination(0, patch.DestOsc1PulseWidthIndex)}},
			},
		},
		{
			Name: "fx",
			Choices: []Choice{
				{Bits: 0b000, Short: "dst", Mutators: []Mutator{MacroDestination(7, 0, patch.MacroDistortionLevel)}},
				{Bits: 0b100, Short: "syn", Mutators: []Mutator{MacroDestination(7, 0, patch.MacroO1VsyncDepth)}},
			},
		},
	},
}

// Pad varies oscillator shape, the second oscillator's interval and noise.
// It fills the second page of a pack.
var Pad = Preset{
	Name:   "pad",
	Prefix: "Pad ",
	Start:  32,
	Dimensions: []Dimension{
		{
			Name: "shape",
			Choices: []Choice{
				{Bits: 0b0, Short: "saw", Mutators: []Mutator{Osc1Wave(patch.OscSawtooth, 0)}},
				{Bits: 0b1, Short: "squ", Mutators: []Mutator{Osc1Wave(patch.OscPulseWidth, 0x40)}},
			},
		},
		{
			Name: "interval",
			Choices: []Choice{
				{Bits: 0b00, Short: "0"},
				{Bits: 0b10, Short: "5", Mutators: []Mutator{TransposeOsc2(7)}},
			},
		},
		{
			Name: "noise",
			Choices: []Choice{
				{Bits: 0b000, Short: "noise", Mutators: []Mutator{NoiseLevel(20)}},
				{Bits: 0b100, Short: "quiet", Mutators: []Mutator{NoiseLevel(0)}},
			},
		},
	},
}

var presets = lo.KeyBy([]Preset{Bass, Pad}, func(p Preset) string { return p.Name })

// LookupPreset returns the built-in preset called name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := lo.Keys(presets)
	slices.Sort(names)

	return names
}

var (
	lfoFilter       = ModRoute(0, patch.SourceLfo1Plus, patch.DestFilterFrequency)
	oscSineTriangle = func(p *patch.Patch) {
		Osc1Wave(patch.OscSine, p.Oscillators[0].PulseWidthIndex)(p)
		Osc2Wave(patch.OscTriangle, 127)(p)
	}
)
