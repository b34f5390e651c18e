package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/bank"
	"github.com/arloliu/ctpatch/generate"
)

const (
	filterSweep = "filters"
	macroReveal = "macros"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		preset   string
		outDir   string
		start    int
		withBank bool
	)

	cmd := &cobra.Command{
		Use:   "generate BASE.syx",
		Short: "Generate a family of variants of a base patch",
		Long: fmt.Sprintf(`Generate a family of variants of a base patch.

Presets: %s, %s, %s.

Each variant is written to "NN name.syx", NN being its slot. With --bank the
variants are also concatenated into one bank file stored in --pack.`,
			strings.Join(generate.PresetNames(), ", "), filterSweep, macroReveal),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctpatch.ReadFile(args[0])
			if err != nil {
				return err
			}

			var (
				variants []generate.Variant
				first    uint8
			)
			switch preset {
			case filterSweep:
				variants, err = generate.FilterSweep(base)
			case macroReveal:
				variants, err = generate.MacroReveal(base)
			default:
				p, ok := generate.LookupPreset(preset)
				if !ok {
					return fmt.Errorf("unknown preset %q", preset)
				}
				first = p.Start
				variants, err = p.Generate(base)
			}
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("start") {
				if start < 0 || start >= bank.SlotCount {
					return fmt.Errorf("start slot %d out of range", start)
				}
				first = uint8(start)
			}

			entries, err := generate.Entries(variants, first)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			for _, e := range entries {
				name := filepath.Join(outDir, slotFileName(e))
				if err := ctpatch.WriteFile(name, e.Patch); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s\n", name)
			}

			if !withBank {
				return nil
			}

			data, err := bank.Build(cmd.Context(), entries,
				bank.WithPackIndex(a.cfg.PackIndex), bank.WithLogger(a.logger))
			if err != nil {
				return err
			}

			name := filepath.Join(outDir, fmt.Sprintf("bank-%s-%02d-%02d.syx",
				preset, entries[0].Slot, entries[len(entries)-1].Slot))
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s (%d patches)\n", name, len(entries))

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&preset, "preset", filterSweep, "variant family")
	f.StringVar(&outDir, "out", ".", "output directory")
	f.IntVar(&start, "start", 0, "slot of the first variant, overriding the preset")
	f.BoolVar(&withBank, "bank", false, "also write a bank of all variants")

	return cmd
}

// slotFileName returns "NN name.syx".
func slotFileName(e bank.Entry) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator {
			return '_'
		}

		return r
	}, e.Patch.Meta.DisplayName())

	return fmt.Sprintf("%02d %s.syx", e.Slot, name)
}
