// Package bank builds and reads banks of Circuit Tracks patches.
//
// A bank is a concatenation of patch packets, one per slot, as written by the
// synth's librarian and accepted by it over MIDI. Build assigns every patch a
// Replace Patch command for its slot and encodes the patches in parallel;
// Parse splits a bank back into patches. Archive and Extract store a bank in
// a compact, checksummed file.
package bank

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/internal/collision"
	"github.com/arloliu/ctpatch/internal/hash"
	"github.com/arloliu/ctpatch/internal/pool"
	"github.com/arloliu/ctpatch/patch"
	"github.com/arloliu/ctpatch/sysex"
)

// SlotCount is the number of synth patch slots in one pack.
const SlotCount = 128

// Entry is a patch bound to a slot of a pack.
type Entry struct {
	Slot  uint8
	Patch *patch.Patch
}

// Assign binds patches to consecutive slots starting at first.
func Assign(patches []*patch.Patch, first uint8) ([]Entry, error) {
	if int(first)+len(patches) > SlotCount {
		return nil, fmt.Errorf("%w: %d patches from slot %d exceed %d slots",
			errs.ErrSlotOutOfRange, len(patches), first, SlotCount)
	}

	return lo.Map(patches, func(p *patch.Patch, i int) Entry {
		return Entry{Slot: first + uint8(i), Patch: p}
	}), nil
}

// Build encodes entries into a bank, ordered by slot.
//
// Every patch is stored with a Replace Patch command for its slot in the
// configured pack; the entries themselves are not modified. Patches are
// encoded concurrently, bounded by WithWorkers.
//
// Parameters:
//   - ctx: Cancels encoding of patches not yet started
//   - entries: Patches and their slots; slots must be unique and below SlotCount
//   - opts: WithPackIndex, WithWorkers, WithLogger
//
// Returns:
//   - []byte: The concatenated packets
//   - error: errs.ErrEmptyBank, errs.ErrSlotOutOfRange, errs.ErrDuplicateSlot,
//     or the first encode error, annotated with its slot
func Build(ctx context.Context, entries []Entry, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := checkSlots(entries); err != nil {
		return nil, err
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return int(a.Slot) - int(b.Slot) })

	packets := make([][]byte, len(sorted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for i, e := range sorted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pkt, err := ctpatch.Encode(e.Patch.StoreAt(cfg.packIndex, e.Slot))
			if err != nil {
				return fmt.Errorf("slot %d %q: %w", e.Slot, e.Patch.Meta.DisplayName(), err)
			}
			packets[i] = pkt

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	buf := pool.GetBankBuffer()
	defer pool.PutBankBuffer(buf)

	buf.Grow(len(packets) * patch.PacketSize(patch.ReplacePatch{}))
	for _, pkt := range packets {
		_, _ = buf.Write(pkt)
	}

	cfg.logger.Debug("built bank",
		zap.Uint16("pack", cfg.packIndex),
		zap.Int("patches", len(packets)),
		zap.Int("bytes", buf.Len()))

	return bytes.Clone(buf.Bytes()), nil
}

func checkSlots(entries []Entry) error {
	if len(entries) == 0 {
		return errs.ErrEmptyBank
	}

	for _, e := range entries {
		if int(e.Slot) >= SlotCount {
			return fmt.Errorf("%w: %d", errs.ErrSlotOutOfRange, e.Slot)
		}
		if e.Patch == nil {
			return fmt.Errorf("slot %d: nil patch", e.Slot)
		}
	}

	if dups := lo.FindDuplicatesBy(entries, func(e Entry) uint8 { return e.Slot }); len(dups) > 0 {
		return fmt.Errorf("%w: %d", errs.ErrDuplicateSlot, dups[0].Slot)
	}

	return nil
}

// Parse splits a bank into its patches.
//
// A patch carrying a Replace Patch command keeps its stored slot; any other
// patch is given its position in the bank. Real-time bytes and data between
// packets are ignored. The slots are checked the same way Build checks them,
// so a parsed bank can always be rebuilt.
func Parse(data []byte) ([]Entry, error) {
	msgs, err := sysex.Split(data)
	if err != nil {
		return nil, err
	}

	if len(msgs) == 0 {
		return nil, errs.ErrEmptyBank
	}

	entries := make([]Entry, 0, len(msgs))
	for i, msg := range msgs {
		p, err := ctpatch.Decode(msg)
		if err != nil {
			return nil, fmt.Errorf("packet %d: %w", i, err)
		}

		var slot uint8
		switch cmd := p.Command.(type) {
		case patch.ReplacePatch:
			slot = cmd.PatchIndex
		default:
			if i >= SlotCount {
				return nil, fmt.Errorf("packet %d: %w", i, errs.ErrSlotOutOfRange)
			}
			slot = uint8(i)
		}
		entries = append(entries, Entry{Slot: slot, Patch: p})
	}

	if err := checkSlots(entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Fingerprint returns a hash of the patch parameters. The command is ignored,
// so the same sound stored in different slots has the same fingerprint.
func Fingerprint(p *patch.Patch) (uint64, error) {
	pb := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(pb)

	out, err := ctpatch.Append(pb.B, unslotted(p))
	if err != nil {
		return 0, err
	}
	pb.B = out

	return hash.Sum(out), nil
}

// DedupStats summarizes a Dedup run.
type DedupStats struct {
	Kept    int
	Dropped int
	// Collisions counts distinct patches that shared a fingerprint.
	Collisions int
}

// Dedup drops entries whose patch has the same parameters as an earlier entry
// and returns the remaining entries in their original order. Patches are
// compared by fingerprint and confirmed byte by byte.
//
// Only WithLogger applies.
func Dedup(entries []Entry, opts ...Option) ([]Entry, DedupStats, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, DedupStats{}, err
	}

	tr := collision.NewTracker()

	uniq := make([]Entry, 0, len(entries))
	for _, e := range entries {
		pkt, err := ctpatch.Encode(unslotted(e.Patch))
		if err != nil {
			return nil, DedupStats{}, fmt.Errorf("slot %d: %w", e.Slot, err)
		}

		if !tr.Track(hash.Sum(pkt), pkt) {
			uniq = append(uniq, e)
		}
	}

	stats := DedupStats{
		Kept:       tr.Count(),
		Dropped:    len(entries) - tr.Count(),
		Collisions: tr.Collisions(),
	}
	if tr.HasCollision() {
		cfg.logger.Warn("distinct patches share a fingerprint", zap.Int("collisions", stats.Collisions))
	}
	cfg.logger.Debug("deduplicated bank", zap.Int("kept", stats.Kept), zap.Int("dropped", stats.Dropped))

	return uniq, stats, nil
}

func unslotted(p *patch.Patch) *patch.Patch {
	c := p.Clone()
	c.Command = patch.ReplaceCurrentPatch{}

	return c
}
