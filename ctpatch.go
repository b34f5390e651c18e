// Package ctpatch reads and writes Novation Circuit Tracks synth patches in
// their SysEx form.
//
// A patch packet is a fixed-layout binary record: a six-byte header, a command
// section, the patch parameters and a single end-of-exclusive byte. Its layout
// is declared once as a static schema (package patch) and walked by a generic
// record codec (package codec); this package is the boundary that frames,
// length-checks and validates whole packets around that codec.
//
// # Core Features
//
//   - Exact round trip: decode followed by encode reproduces the input bytes
//   - Both patch commands: Replace Current Patch (350 bytes) and Replace Patch
//     (352 bytes, stores into a pack slot)
//   - Field-path errors, e.g. "decode lfos[1].flags: buffer underrun at offset 108"
//   - Structural validation of header, counts and terminator
//
// # Basic Usage
//
// Reading a patch, changing it and writing it back:
//
//	p, err := ctpatch.ReadFile("bass.syx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.Filter.Type = patch.HighPass24dB
//	_ = p.Meta.SetName("Bass HP24")
//
//	if err := ctpatch.WriteFile("bass-hp24.syx", p); err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding a packet received from the synth:
//
//	p, err := ctpatch.Decode(msg)
//	if errors.Is(err, errs.ErrFraming) {
//	    // not a patch packet
//	}
//
// # Package Structure
//
// This package wraps the patch schema with framing and validation. Banks of
// patches live in package bank, device I/O in package transport.
package ctpatch

import (
	"fmt"
	"os"

	"github.com/arloliu/ctpatch/codec"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/sysex"
)

// Decode decodes one patch packet.
//
// The expected packet length is derived from the command id at
// patch.CommandOffset. The packet is framed and length-checked before any
// field is decoded, must be consumed exactly, and the decoded patch must pass
// patch.Validate.
//
// Parameters:
//   - buf: One complete SysEx message, 0xF0 through 0xF7
//
// Returns:
//   - *patch.Patch: The decoded patch. It does not alias buf.
//   - error: *errs.FramingError, a codec error wrapped in *errs.FieldError, or
//     *errs.ValidationError.
func Decode(buf []byte) (*patch.Patch, error) {
	want, err := expectedLength(buf)
	if err != nil {
		return nil, err
	}

	if err := sysex.CheckFrame(buf, want); err != nil {
		return nil, err
	}

	p, err := codec.DecodeExact[patch.Patch](patch.Schema, buf)
	if err != nil {
		return nil, err
	}

	if err := patch.Validate(&p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Encode validates p and encodes it into a new packet.
//
// Returns:
//   - []byte: The packet, 350 or 352 bytes depending on p.Command.
//   - error: *errs.ValidationError or a codec error wrapped in *errs.FieldError.
func Encode(p *patch.Patch) ([]byte, error) {
	return Append(make([]byte, 0, patch.PacketSize(p.Command)), p)
}

// Append validates p and appends its encoded packet to dst.
//
// On error dst is returned with its original length.
func Append(dst []byte, p *patch.Patch) ([]byte, error) {
	if err := patch.Validate(p); err != nil {
		return dst, err
	}

	start := len(dst)
	out, err := patch.Schema.Append(dst, *p)
	if err != nil {
		return dst[:start], err
	}

	if n, want := len(out)-start, patch.PacketSize(p.Command); n != want {
		return dst[:start], &errs.LengthMismatchError{Want: want, Got: n}
	}

	return out, nil
}

// Validate checks the structural invariants of p without encoding it.
func Validate(p *patch.Patch) error {
	return patch.Validate(p)
}

// ReadFile reads and decodes a single-patch .syx file.
func ReadFile(name string) (*patch.Patch, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	p, err := Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return p, nil
}

// WriteFile encodes p and writes it to a .syx file, creating or truncating it.
func WriteFile(name string, p *patch.Patch) error {
	buf, err := Encode(p)
	if err != nil {
		return err
	}

	return os.WriteFile(name, buf, 0o644)
}

// DumpRequest returns the packet that asks the synth to send the patch loaded
// at location back to the host.
//
// Example:
//
//	req := ctpatch.DumpRequest(0)
//	// req == F0 00 20 29 01 64 40 00 F7
func DumpRequest(location uint8) []byte {
	buf, err := codec.Encode[patch.DumpRequest](patch.DumpRequestSchema, patch.NewDumpRequest(location))
	if err != nil {
		// every field of a dump request is a single byte
		panic(err)
	}

	return buf
}

func expectedLength(buf []byte) (int, error) {
	if len(buf) <= patch.CommandOffset {
		return 0, &errs.FramingError{Reason: "packet too short", Len: len(buf), Want: patch.PacketSize(nil)}
	}

	id := patch.SysexCommand(buf[patch.CommandOffset])
	want, ok := patch.PacketSizeFor(id)
	if !ok {
		return 0, fmt.Errorf("%w: command %s (0x%02X)", errs.ErrUnknownVariant, id, byte(id))
	}

	return want, nil
}
