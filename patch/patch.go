// Package patch holds the Novation Circuit Tracks synth patch schema: the
// record types of one SysEx patch packet, their codec tables and the
// validator.
//
// A packet is 350 bytes when it carries the Replace Current Patch command and
// 352 bytes when it carries Replace Patch, whose pack index is two bytes wide.
// All other sections are identical.
package patch

import "encoding/hex"

const (
	StartOfExclusive byte = 0xF0
	EndOfExclusive   byte = 0xF7

	ProductType    uint8 = 0x01
	ProductTracks  uint8 = 0x64
	ProductCircuit uint8 = 0x60

	// CommandOffset is the byte offset of the command id within a packet.
	CommandOffset = 6

	NameLength = 16

	OscillatorCount = 2
	EnvelopeCount   = 3
	LfoCount        = 2
	ModMatrixSlots  = 20
	MacroKnobCount  = 8
	MacroKnobRanges = 4
)

// NovationID is the three-byte SysEx manufacturer id.
var NovationID = Raw{0x00, 0x20, 0x29}

// Raw is an opaque byte string. It renders as hex in text encodings.
type Raw []byte

func (r Raw) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(r)), nil
}

func (r *Raw) UnmarshalText(b []byte) error {
	v, err := hex.DecodeString(string(b))
	if err != nil {
		return err
	}
	*r = v

	return nil
}

type Header struct {
	SysEx    uint8 `yaml:"sysex"`
	MfrID    Raw   `yaml:"mfr_id"`
	ProdType uint8 `yaml:"prod_type"`
	ProdNum  uint8 `yaml:"prod_num"`
}

// Command is the body of the command section. The command id is the
// discriminator of the section and is not stored in the body.
type Command interface {
	CommandID() SysexCommand
}

// ReplaceCurrentPatch loads the patch into the synth at Location without
// saving it.
type ReplaceCurrentPatch struct {
	Location uint8 `yaml:"location"`
	Reserved uint8 `yaml:"reserved"`
}

func (ReplaceCurrentPatch) CommandID() SysexCommand { return CmdReplaceCurrentPatch }

// ReplacePatch stores the patch in slot PatchIndex of pack PackIndex.
type ReplacePatch struct {
	PackIndex  uint16 `yaml:"pack_index"`
	PatchIndex uint8  `yaml:"patch_index"`
	Reserved   uint8  `yaml:"reserved"`
}

func (ReplacePatch) CommandID() SysexCommand { return CmdReplacePatch }

type Meta struct {
	Name     Text  `yaml:"name"`
	Category uint8 `yaml:"category"`
	Genre    uint8 `yaml:"genre"`
	Reserved Raw   `yaml:"reserved"`
}

type Voice struct {
	PolyphonyMode  PolyphonyMode `yaml:"polyphony_mode"`
	PortamentoRate uint8         `yaml:"portamento_rate"`
	PreGlide       uint8         `yaml:"pre_glide"`
	KeyboardOctave uint8         `yaml:"keyboard_octave"`
}

type Osc struct {
	Wave             OscWaveform `yaml:"wave"`
	WaveInterpolate  uint8       `yaml:"wave_interpolate"`
	PulseWidthIndex  uint8       `yaml:"pulse_width_index"`
	VirtualSyncDepth uint8       `yaml:"virtual_sync_depth"`
	Density          uint8       `yaml:"density"`
	DensityDetune    uint8       `yaml:"density_detune"`
	Semitones        uint8       `yaml:"semitones"`
	Cents            uint8       `yaml:"cents"`
	PitchBend        uint8       `yaml:"pitch_bend"`
}

type Mixer struct {
	Osc1Level      uint8 `yaml:"osc1_level"`
	Osc2Level      uint8 `yaml:"osc2_level"`
	RingModLevel12 uint8 `yaml:"ring_mod_level12"`
	NoiseLevel     uint8 `yaml:"noise_level"`
	PreFxLevel     uint8 `yaml:"pre_fx_level"`
	PostFxLevel    uint8 `yaml:"post_fx_level"`
}

type Filter struct {
	Routing    uint8          `yaml:"routing"`
	Drive      uint8          `yaml:"drive"`
	DriveType  DistortionType `yaml:"drive_type"`
	Type       FilterType     `yaml:"type"`
	Frequency  uint8          `yaml:"frequency"`
	Track      uint8          `yaml:"track"`
	Resonance  uint8          `yaml:"resonance"`
	QNormalise uint8          `yaml:"q_normalise"`
	Env2ToFreq uint8          `yaml:"env2_to_freq"`
}

// Envelope is one of the amp, filter and mod envelopes. The first byte is the
// velocity amount for the first two envelopes and the delay for the third.
type Envelope struct {
	VelocityOrDelay uint8 `yaml:"velocity_or_delay"`
	Attack          uint8 `yaml:"attack"`
	Decay           uint8 `yaml:"decay"`
	Sustain         uint8 `yaml:"sustain"`
	Release         uint8 `yaml:"release"`
}

// LfoFlags is the packed flags byte of an LFO: four single-bit flags in the
// low nibble and the fade mode in the high nibble.
type LfoFlags struct {
	OneShot      bool        `yaml:"one_shot"`
	KeySync      bool        `yaml:"key_sync"`
	CommonSync   bool        `yaml:"common_sync"`
	DelayTrigger bool        `yaml:"delay_trigger"`
	FadeMode     LfoFadeMode `yaml:"fade_mode"`
}

type Lfo struct {
	Waveform    LfoWaveform `yaml:"waveform"`
	PhaseOffset uint8       `yaml:"phase_offset"`
	SlewRate    uint8       `yaml:"slew_rate"`
	Delay       uint8       `yaml:"delay"`
	DelaySync   uint8       `yaml:"delay_sync"`
	Rate        uint8       `yaml:"rate"`
	RateSync    uint8       `yaml:"rate_sync"`
	Flags       LfoFlags    `yaml:"flags"`
}

type Fx struct {
	DistortionLevel        uint8          `yaml:"distortion_level"`
	Reserved1              uint8          `yaml:"reserved1"`
	ChorusLevel            uint8          `yaml:"chorus_level"`
	Reserved2              uint8          `yaml:"reserved2"`
	Reserved3              uint8          `yaml:"reserved3"`
	EqBassFrequency        uint8          `yaml:"equaliser_bass_frequency"`
	EqBassLevel            uint8          `yaml:"equaliser_bass_level"`
	EqMidFrequency         uint8          `yaml:"equaliser_mid_frequency"`
	EqMidLevel             uint8          `yaml:"equaliser_mid_level"`
	EqTrebleFrequency      uint8          `yaml:"equaliser_treble_frequency"`
	EqTrebleLevel          uint8          `yaml:"equaliser_treble_level"`
	Reserved4              Raw            `yaml:"reserved4"`
	DistortionType         DistortionType `yaml:"distortion_type"`
	DistortionCompensation uint8          `yaml:"distortion_compensation"`
	ChorusType             uint8          `yaml:"chorus_type"`
	ChorusRate             uint8          `yaml:"chorus_rate"`
	ChorusRateSync         uint8          `yaml:"chorus_rate_sync"`
	ChorusFeedback         uint8          `yaml:"chorus_feedback"`
	ChorusModDepth         uint8          `yaml:"chorus_mod_depth"`
	ChorusDelay            uint8          `yaml:"chorus_delay"`
}

type ModMatrix struct {
	Source1     ModMatrixSource      `yaml:"source1"`
	Source2     ModMatrixSource      `yaml:"source2"`
	Depth       uint8                `yaml:"depth"`
	Destination ModMatrixDestination `yaml:"destination"`
}

type MacroKnobRange struct {
	Destination MacroKnobDestination `yaml:"destination"`
	StartPos    uint8                `yaml:"start_pos"`
	EndPos      uint8                `yaml:"end_pos"`
	Depth       uint8                `yaml:"depth"`
}

type MacroKnob struct {
	Position uint8            `yaml:"position"`
	Ranges   []MacroKnobRange `yaml:"ranges"`
}

type Footer struct {
	EOX uint8 `yaml:"eox"`
}

// Patch is one decoded patch packet.
type Patch struct {
	Header      Header      `yaml:"header"`
	Command     Command     `yaml:"-"`
	Meta        Meta        `yaml:"meta"`
	Voice       Voice       `yaml:"voice"`
	Oscillators []Osc       `yaml:"oscillators"`
	Mixer       Mixer       `yaml:"mixer"`
	Filter      Filter      `yaml:"filter"`
	Envelopes   []Envelope  `yaml:"envelopes"`
	Lfos        []Lfo       `yaml:"lfos"`
	Fx          Fx          `yaml:"fx"`
	ModMatrix   []ModMatrix `yaml:"mod_matrix"`
	MacroKnobs  []MacroKnob `yaml:"macro_knobs"`
	Footer      Footer      `yaml:"footer"`
}

// New returns a valid patch named "Initial Patch" with every section at its
// zero value, addressed to the current patch at location 0.
func New() *Patch {
	p := &Patch{
		Header:      Header{SysEx: StartOfExclusive, MfrID: append(Raw(nil), NovationID...), ProdType: ProductType, ProdNum: ProductTracks},
		Command:     ReplaceCurrentPatch{},
		Meta:        Meta{Reserved: make(Raw, 14)},
		Oscillators: make([]Osc, OscillatorCount),
		Envelopes:   make([]Envelope, EnvelopeCount),
		Lfos:        make([]Lfo, LfoCount),
		Fx:          Fx{Reserved4: make(Raw, 5)},
		ModMatrix:   make([]ModMatrix, ModMatrixSlots),
		MacroKnobs:  make([]MacroKnob, MacroKnobCount),
		Footer:      Footer{EOX: EndOfExclusive},
	}
	for i := range p.MacroKnobs {
		p.MacroKnobs[i].Ranges = make([]MacroKnobRange, MacroKnobRanges)
	}
	_ = p.Meta.SetName("Initial Patch")

	return p
}

// Clone returns a deep copy of p.
func (p *Patch) Clone() *Patch {
	c := *p
	c.Header.MfrID = append(Raw(nil), p.Header.MfrID...)
	c.Meta.Name = append(Text(nil), p.Meta.Name...)
	c.Meta.Reserved = append(Raw(nil), p.Meta.Reserved...)
	c.Fx.Reserved4 = append(Raw(nil), p.Fx.Reserved4...)
	c.Oscillators = append([]Osc(nil), p.Oscillators...)
	c.Envelopes = append([]Envelope(nil), p.Envelopes...)
	c.Lfos = append([]Lfo(nil), p.Lfos...)
	c.ModMatrix = append([]ModMatrix(nil), p.ModMatrix...)
	c.MacroKnobs = make([]MacroKnob, len(p.MacroKnobs))
	for i, k := range p.MacroKnobs {
		c.MacroKnobs[i] = MacroKnob{Position: k.Position, Ranges: append([]MacroKnobRange(nil), k.Ranges...)}
	}

	return &c
}

// StoreAt returns a copy of p whose command stores it in slot patchIndex of
// pack packIndex.
func (p *Patch) StoreAt(packIndex uint16, patchIndex uint8) *Patch {
	c := p.Clone()
	c.Command = ReplacePatch{PackIndex: packIndex, PatchIndex: patchIndex}

	return c
}
