package patch

import (
	"bytes"
	"fmt"

	"github.com/arloliu/ctpatch/errs"
)

// Validate checks the structural invariants of p in a fixed order and returns
// the first violation as *errs.ValidationError.
//
// Parameter values are not range-checked; any byte is a legal parameter value.
func Validate(p *Patch) error {
	if p.Header.SysEx != StartOfExclusive {
		return invalid("start_of_exclusive", "got 0x%02X, want 0x%02X", p.Header.SysEx, StartOfExclusive)
	}
	if !bytes.Equal(p.Header.MfrID, NovationID) {
		return invalid("manufacturer_id", "got % X, want % X", []byte(p.Header.MfrID), []byte(NovationID))
	}
	if p.Header.ProdNum != ProductTracks && p.Header.ProdNum != ProductCircuit {
		return invalid("product_number", "got 0x%02X, want 0x%02X or 0x%02X", p.Header.ProdNum, ProductTracks, ProductCircuit)
	}
	if p.Command == nil {
		return invalid("command", "missing")
	}

	counts := []struct {
		check string
		got   int
		want  int
	}{
		{"oscillators", len(p.Oscillators), oscillatorsCodec.Count()},
		{"envelopes", len(p.Envelopes), envelopesCodec.Count()},
		{"lfos", len(p.Lfos), lfosCodec.Count()},
		{"mod_matrix", len(p.ModMatrix), modMatrixSlots.Count()},
		{"macro_knobs", len(p.MacroKnobs), macroKnobsCodec.Count()},
	}
	for _, c := range counts {
		if c.got != c.want {
			return invalid(c.check, "got %d entries, want %d", c.got, c.want)
		}
	}
	for i, k := range p.MacroKnobs {
		if len(k.Ranges) != macroKnobRangesCodec.Count() {
			return invalid("macro_knobs.ranges", "knob %d has %d ranges, want %d", i, len(k.Ranges), macroKnobRangesCodec.Count())
		}
	}

	if p.Footer.EOX != EndOfExclusive {
		return invalid("end_of_exclusive", "got 0x%02X, want 0x%02X", p.Footer.EOX, EndOfExclusive)
	}

	return nil
}

func invalid(check, format string, args ...any) error {
	return &errs.ValidationError{Check: check, Detail: fmt.Sprintf(format, args...)}
}
