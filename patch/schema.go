package patch

import "github.com/arloliu/ctpatch/codec"

var headerCodec = codec.Record[Header]("Header",
	codec.Scalar("sysex", func(h *Header) *uint8 { return &h.SysEx }),
	codec.Bind("mfr_id", codec.Bytes[Raw]("3s"), func(h *Header) *Raw { return &h.MfrID }),
	codec.Scalar("prod_type", func(h *Header) *uint8 { return &h.ProdType }),
	codec.Scalar("prod_num", func(h *Header) *uint8 { return &h.ProdNum }),
)

var (
	replaceCurrentPatchCodec = codec.Record[ReplaceCurrentPatch]("ReplaceCurrentPatch",
		codec.Scalar("location", func(c *ReplaceCurrentPatch) *uint8 { return &c.Location }),
		codec.Scalar("reserved", func(c *ReplaceCurrentPatch) *uint8 { return &c.Reserved }),
	)
	replacePatchCodec = codec.Record[ReplacePatch]("ReplacePatch",
		codec.Bind("pack_index", codec.Layout[uint16]("<H"), func(c *ReplacePatch) *uint16 { return &c.PackIndex }),
		codec.Scalar("patch_index", func(c *ReplacePatch) *uint8 { return &c.PatchIndex }),
		codec.Scalar("reserved", func(c *ReplacePatch) *uint8 { return &c.Reserved }),
	)

	// CommandCodec reads the command id and dispatches to the command body.
	CommandCodec = codec.Union[Command](codec.Default[SysexCommand](),
		codec.Case[Command](CmdReplaceCurrentPatch, "replace_current_patch", replaceCurrentPatchCodec),
		codec.Case[Command](CmdReplacePatch, "replace_patch", replacePatchCodec),
	)
)

var metaCodec = codec.Record[Meta]("Meta",
	codec.Bind("name", codec.Bytes[Text]("16s"), func(m *Meta) *Text { return &m.Name }),
	codec.Scalar("category", func(m *Meta) *uint8 { return &m.Category }),
	codec.Scalar("genre", func(m *Meta) *uint8 { return &m.Genre }),
	codec.Bind("reserved", codec.Bytes[Raw]("14s"), func(m *Meta) *Raw { return &m.Reserved }),
)

var voiceCodec = codec.Record[Voice]("Voice",
	codec.Scalar("polyphony_mode", func(v *Voice) *PolyphonyMode { return &v.PolyphonyMode }),
	codec.Scalar("portamento_rate", func(v *Voice) *uint8 { return &v.PortamentoRate }),
	codec.Scalar("pre_glide", func(v *Voice) *uint8 { return &v.PreGlide }),
	codec.Scalar("keyboard_octave", func(v *Voice) *uint8 { return &v.KeyboardOctave }),
)

var oscCodec = codec.Record[Osc]("Osc",
	codec.Scalar("wave", func(o *Osc) *OscWaveform { return &o.Wave }),
	codec.Scalar("wave_interpolate", func(o *Osc) *uint8 { return &o.WaveInterpolate }),
	codec.Scalar("pulse_width_index", func(o *Osc) *uint8 { return &o.PulseWidthIndex }),
	codec.Scalar("virtual_sync_depth", func(o *Osc) *uint8 { return &o.VirtualSyncDepth }),
	codec.Scalar("density", func(o *Osc) *uint8 { return &o.Density }),
	codec.Scalar("density_detune", func(o *Osc) *uint8 { return &o.DensityDetune }),
	codec.Scalar("semitones", func(o *Osc) *uint8 { return &o.Semitones }),
	codec.Scalar("cents", func(o *Osc) *uint8 { return &o.Cents }),
	codec.Scalar("pitch_bend", func(o *Osc) *uint8 { return &o.PitchBend }),
)

var mixerCodec = codec.Record[Mixer]("Mixer",
	codec.Scalar("osc1_level", func(m *Mixer) *uint8 { return &m.Osc1Level }),
	codec.Scalar("osc2_level", func(m *Mixer) *uint8 { return &m.Osc2Level }),
	codec.Scalar("ring_mod_level12", func(m *Mixer) *uint8 { return &m.RingModLevel12 }),
	codec.Scalar("noise_level", func(m *Mixer) *uint8 { return &m.NoiseLevel }),
	codec.Scalar("pre_fx_level", func(m *Mixer) *uint8 { return &m.PreFxLevel }),
	codec.Scalar("post_fx_level", func(m *Mixer) *uint8 { return &m.PostFxLevel }),
)

var filterCodec = codec.Record[Filter]("Filter",
	codec.Scalar("routing", func(f *Filter) *uint8 { return &f.Routing }),
	codec.Scalar("drive", func(f *Filter) *uint8 { return &f.Drive }),
	codec.Scalar("drive_type", func(f *Filter) *DistortionType { return &f.DriveType }),
	codec.Scalar("type", func(f *Filter) *FilterType { return &f.Type }),
	codec.Scalar("frequency", func(f *Filter) *uint8 { return &f.Frequency }),
	codec.Scalar("track", func(f *Filter) *uint8 { return &f.Track }),
	codec.Scalar("resonance", func(f *Filter) *uint8 { return &f.Resonance }),
	codec.Scalar("q_normalise", func(f *Filter) *uint8 { return &f.QNormalise }),
	codec.Scalar("env2_to_freq", func(f *Filter) *uint8 { return &f.Env2ToFreq }),
)

var envelopeCodec = codec.Record[Envelope]("Envelope",
	codec.Scalar("velocity_or_delay", func(e *Envelope) *uint8 { return &e.VelocityOrDelay }),
	codec.Scalar("attack", func(e *Envelope) *uint8 { return &e.Attack }),
	codec.Scalar("decay", func(e *Envelope) *uint8 { return &e.Decay }),
	codec.Scalar("sustain", func(e *Envelope) *uint8 { return &e.Sustain }),
	codec.Scalar("release", func(e *Envelope) *uint8 { return &e.Release }),
)

// LfoFlagsCodec packs LfoFlags into one byte: one_shot is bit 0, key_sync bit
// 1, common_sync bit 2, delay_trigger bit 3 and fade_mode bits 4 to 7.
var LfoFlagsCodec = codec.Bitfield(1,
	codec.Flag("one_shot", func(f *LfoFlags) *bool { return &f.OneShot }),
	codec.Flag("key_sync", func(f *LfoFlags) *bool { return &f.KeySync }),
	codec.Flag("common_sync", func(f *LfoFlags) *bool { return &f.CommonSync }),
	codec.Flag("delay_trigger", func(f *LfoFlags) *bool { return &f.DelayTrigger }),
	codec.Bits("fade_mode", 4, func(f *LfoFlags) *LfoFadeMode { return &f.FadeMode }),
)

var lfoCodec = codec.Record[Lfo]("Lfo",
	codec.Scalar("waveform", func(l *Lfo) *LfoWaveform { return &l.Waveform }),
	codec.Scalar("phase_offset", func(l *Lfo) *uint8 { return &l.PhaseOffset }),
	codec.Scalar("slew_rate", func(l *Lfo) *uint8 { return &l.SlewRate }),
	codec.Scalar("delay", func(l *Lfo) *uint8 { return &l.Delay }),
	codec.Scalar("delay_sync", func(l *Lfo) *uint8 { return &l.DelaySync }),
	codec.Scalar("rate", func(l *Lfo) *uint8 { return &l.Rate }),
	codec.Scalar("rate_sync", func(l *Lfo) *uint8 { return &l.RateSync }),
	codec.Bind("flags", LfoFlagsCodec, func(l *Lfo) *LfoFlags { return &l.Flags }),
)

var fxCodec = codec.Record[Fx]("Fx",
	codec.Scalar("distortion_level", func(f *Fx) *uint8 { return &f.DistortionLevel }),
	codec.Scalar("reserved1", func(f *Fx) *uint8 { return &f.Reserved1 }),
	codec.Scalar("chorus_level", func(f *Fx) *uint8 { return &f.ChorusLevel }),
	codec.Scalar("reserved2", func(f *Fx) *uint8 { return &f.Reserved2 }),
	codec.Scalar("reserved3", func(f *Fx) *uint8 { return &f.Reserved3 }),
	codec.Scalar("equaliser_bass_frequency", func(f *Fx) *uint8 { return &f.EqBassFrequency }),
	codec.Scalar("equaliser_bass_level", func(f *Fx) *uint8 { return &f.EqBassLevel }),
	codec.Scalar("equaliser_mid_frequency", func(f *Fx) *uint8 { return &f.EqMidFrequency }),
	codec.Scalar("equaliser_mid_level", func(f *Fx) *uint8 { return &f.EqMidLevel }),
	codec.Scalar("equaliser_treble_frequency", func(f *Fx) *uint8 { return &f.EqTrebleFrequency }),
	codec.Scalar("equaliser_treble_level", func(f *Fx) *uint8 { return &f.EqTrebleLevel }),
	codec.Bind("reserved4", codec.Bytes[Raw]("5s"), func(f *Fx) *Raw { return &f.Reserved4 }),
	codec.Scalar("distortion_type", func(f *Fx) *DistortionType { return &f.DistortionType }),
	codec.Scalar("distortion_compensation", func(f *Fx) *uint8 { return &f.DistortionCompensation }),
	codec.Scalar("chorus_type", func(f *Fx) *uint8 { return &f.ChorusType }),
	codec.Scalar("chorus_rate", func(f *Fx) *uint8 { return &f.ChorusRate }),
	codec.Scalar("chorus_rate_sync", func(f *Fx) *uint8 { return &f.ChorusRateSync }),
	codec.Scalar("chorus_feedback", func(f *Fx) *uint8 { return &f.ChorusFeedback }),
	codec.Scalar("chorus_mod_depth", func(f *Fx) *uint8 { return &f.ChorusModDepth }),
	codec.Scalar("chorus_delay", func(f *Fx) *uint8 { return &f.ChorusDelay }),
)

var modMatrixCodec = codec.Record[ModMatrix]("ModMatrix",
	codec.Scalar("source1", func(m *ModMatrix) *ModMatrixSource { return &m.Source1 }),
	codec.Scalar("source2", func(m *ModMatrix) *ModMatrixSource { return &m.Source2 }),
	codec.Scalar("depth", func(m *ModMatrix) *uint8 { return &m.Depth }),
	codec.Scalar("destination", func(m *ModMatrix) *ModMatrixDestination { return &m.Destination }),
)

var (
	macroKnobRangeCodec = codec.Record[MacroKnobRange]("MacroKnobRange",
		codec.Scalar("destination", func(r *MacroKnobRange) *MacroKnobDestination { return &r.Destination }),
		codec.Scalar("start_pos", func(r *MacroKnobRange) *uint8 { return &r.StartPos }),
		codec.Scalar("end_pos", func(r *MacroKnobRange) *uint8 { return &r.EndPos }),
		codec.Scalar("depth", func(r *MacroKnobRange) *uint8 { return &r.Depth }),
	)
	macroKnobRangesCodec = codec.Repeat[MacroKnobRange](MacroKnobRanges, macroKnobRangeCodec)
	macroKnobCodec       = codec.Record[MacroKnob]("MacroKnob",
		codec.Scalar("position", func(k *MacroKnob) *uint8 { return &k.Position }),
		codec.Bind("ranges", macroKnobRangesCodec, func(k *MacroKnob) *[]MacroKnobRange { return &k.Ranges }),
	)
)

var footerCodec = codec.Record[Footer]("Footer",
	codec.Scalar("eox", func(f *Footer) *uint8 { return &f.EOX }),
)

var (
	oscillatorsCodec = codec.Repeat[Osc](OscillatorCount, oscCodec)
	envelopesCodec   = codec.Repeat[Envelope](EnvelopeCount, envelopeCodec)
	lfosCodec        = codec.Repeat[Lfo](LfoCount, lfoCodec)
	modMatrixSlots   = codec.Repeat[ModMatrix](ModMatrixSlots, modMatrixCodec)
	macroKnobsCodec  = codec.Repeat[MacroKnob](MacroKnobCount, macroKnobCodec)
)

// Schema is the codec of a complete patch packet.
var Schema = codec.Record[Patch]("Patch",
	codec.Nested("header", headerCodec, func(p *Patch) *Header { return &p.Header }),
	codec.Bind("command", CommandCodec, func(p *Patch) *Command { return &p.Command }),
	codec.Nested("meta", metaCodec, func(p *Patch) *Meta { return &p.Meta }),
	codec.Nested("voice", voiceCodec, func(p *Patch) *Voice { return &p.Voice }),
	codec.Bind("oscillators", oscillatorsCodec, func(p *Patch) *[]Osc { return &p.Oscillators }),
	codec.Nested("mixer", mixerCodec, func(p *Patch) *Mixer { return &p.Mixer }),
	codec.Nested("filter", filterCodec, func(p *Patch) *Filter { return &p.Filter }),
	codec.Bind("envelopes", envelopesCodec, func(p *Patch) *[]Envelope { return &p.Envelopes }),
	codec.Bind("lfos", lfosCodec, func(p *Patch) *[]Lfo { return &p.Lfos }),
	codec.Nested("fx", fxCodec, func(p *Patch) *Fx { return &p.Fx }),
	codec.Bind("mod_matrix", modMatrixSlots, func(p *Patch) *[]ModMatrix { return &p.ModMatrix }),
	codec.Bind("macro_knobs", macroKnobsCodec, func(p *Patch) *[]MacroKnob { return &p.MacroKnobs }),
	codec.Nested("footer", footerCodec, func(p *Patch) *Footer { return &p.Footer }),
)

// PacketSize returns the encoded length of a patch packet carrying cmd. A nil
// cmd gives the size for Replace Current Patch.
func PacketSize(cmd Command) int {
	return Schema.Size(Patch{Command: cmd})
}

// PacketSizeFor returns the packet length implied by command id, and false
// when id names no patch-carrying command.
func PacketSizeFor(id SysexCommand) (int, bool) {
	switch id {
	case CmdReplaceCurrentPatch:
		return PacketSize(ReplaceCurrentPatch{}), true
	case CmdReplacePatch:
		return PacketSize(ReplacePatch{}), true
	default:
		return 0, false
	}
}
