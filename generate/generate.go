// Package generate derives families of patch variants from a base patch.
//
// A family is the Cartesian product of dimensions. Each dimension offers a set
// of choices; a choice carries the mutators it applies, a short name and the
// bits it contributes to the variant index. Choosing distinct bits per
// dimension gives every variant a unique index, which maps directly onto a
// slot of a pack.
//
//	shape := generate.Dimension{Name: "shape", Choices: []generate.Choice{
//	    {Bits: 0b0, Short: "saw", Mutators: []generate.Mutator{generate.Osc1Wave(patch.OscSawtooth, 0)}},
//	    {Bits: 0b1, Short: "squ", Mutators: []generate.Mutator{generate.Osc1Wave(patch.OscPulseWidth, 0x40)}},
//	}}
//	variants, err := generate.Product(base, "Pad ", shape, noise)
package generate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/arloliu/ctpatch/bank"
	"github.com/arloliu/ctpatch/errs"
	"github.com/arloliu/ctpatch/patch"
)

// Mutator changes one aspect of a patch in place.
type Mutator func(p *patch.Patch)

// Choice is one option of a Dimension.
type Choice struct {
	// Bits is added to the index of every variant using this choice.
	Bits int
	// Short is joined with the other choices' names into the patch name.
	Short    string
	Mutators []Mutator
}

// Dimension is one axis of a variant family.
type Dimension struct {
	Name    string
	Choices []Choice
}

// Variant is a generated patch and its index within the family.
type Variant struct {
	Index int
	Patch *patch.Patch
}

// Product applies every combination of one choice per dimension to a copy of
// base and names each copy prefix followed by the choices' short names.
//
// Returns:
//   - []Variant: Variants ordered by index; base is not modified
//   - error: errs.ErrNameTooLong when a joined name exceeds 16 bytes,
//     errs.ErrDuplicateSlot when two combinations have the same index
func Product(base *patch.Patch, prefix string, dims ...Dimension) ([]Variant, error) {
	for _, d := range dims {
		if len(d.Choices) == 0 {
			return nil, fmt.Errorf("dimension %q has no choices", d.Name)
		}
	}

	combos := [][]Choice{{}}
	for _, d := range dims {
		next := make([][]Choice, 0, len(combos)*len(d.Choices))
		for _, combo := range combos {
			for _, c := range d.Choices {
				next = append(next, append(slices.Clone(combo), c))
			}
		}
		combos = next
	}

	variants := make([]Variant, 0, len(combos))
	for _, combo := range combos {
		v, err := apply(base, prefix, combo)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	slices.SortStableFunc(variants, func(a, b Variant) int { return a.Index - b.Index })

	if dups := lo.FindDuplicatesBy(variants, func(v Variant) int { return v.Index }); len(dups) > 0 {
		return nil, fmt.Errorf("%w: variant index %d", errs.ErrDuplicateSlot, dups[0].Index)
	}

	return variants, nil
}

func apply(base *patch.Patch, prefix string, combo []Choice) (Variant, error) {
	p := base.Clone()
	for _, c := range combo {
		for _, m := range c.Mutators {
			m(p)
		}
	}

	name := prefix + strings.Join(lo.Map(combo, func(c Choice, _ int) string { return c.Short }), " ")
	if err := p.Meta.SetName(name); err != nil {
		return Variant{}, fmt.Errorf("variant %q: %w", name, err)
	}

	return Variant{
		Index: lo.SumBy(combo, func(c Choice) int { return c.Bits }),
		Patch: p,
	}, nil
}

// FilterSweep returns one variant of base per filter type, named after it.
func FilterSweep(base *patch.Patch) ([]Variant, error) {
	variants := make([]Variant, 0, len(patch.FilterTypes))
	for i, ft := range patch.FilterTypes {
		p := base.Clone()
		p.Filter.Type = ft
		if err := p.Meta.SetName(ft.String()); err != nil {
			return nil, err
		}
		variants = append(variants, Variant{Index: i, Patch: p})
	}

	return variants, nil
}

// MacroReveal numbers the macro knob range destinations of base
// sequentially across patches: range r of knob k in variant i drives
// destination i*32 + k*4 + r. Loading the variants on the synth shows which
// parameter each destination number reaches. Ranges past the last
// destination are left without one.
func MacroReveal(base *patch.Patch) ([]Variant, error) {
	const perPatch = patch.MacroKnobCount * patch.MacroKnobRanges

	total := int(patch.MacroModMatrix(patch.ModMatrixSlots)) + 1
	count := (total + perPatch - 1) / perPatch

	variants := make([]Variant, 0, count)
	for i := range count {
		p := base.Clone()
		for k := range patch.MacroKnobCount {
			for r := range patch.MacroKnobRanges {
				dest := i*perPatch + k*patch.MacroKnobRanges + r
				if dest >= total {
					dest = int(patch.MacroNoDestination)
				}
				MacroDestination(k, r, patch.MacroKnobDestination(dest))(p)
			}
		}

		last := min((i+1)*perPatch, total) - 1
		if err := p.Meta.SetName(fmt.Sprintf("Macro %02d-%02d", i*perPatch, last)); err != nil {
			return nil, err
		}
		variants = append(variants, Variant{Index: i, Patch: p})
	}

	return variants, nil
}

// Entries places variants in a pack, variant index i going to slot start+i.
func Entries(variants []Variant, start uint8) ([]bank.Entry, error) {
	entries := make([]bank.Entry, 0, len(variants))
	for _, v := range variants {
		slot := int(start) + v.Index
		if v.Index < 0 || slot >= bank.SlotCount {
			return nil, fmt.Errorf("%w: variant %d at slot %d", errs.ErrSlotOutOfRange, v.Index, slot)
		}
		entries = append(entries, bank.Entry{Slot: uint8(slot), Patch: v.Patch})
	}

	return entries, nil
}
