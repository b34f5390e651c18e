package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/bank"
	"github.com/arloliu/ctpatch/patch"
)

func (a *app) bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Build, split, archive and upload banks of patches",
	}

	cmd.AddCommand(
		a.bankBuildCmd(),
		a.bankSplitCmd(),
		a.bankArchiveCmd(),
		a.bankExtractCmd(),
		a.bankSendCmd(),
	)

	return cmd
}

func (a *app) bankBuildCmd() *cobra.Command {
	var (
		output string
		start  uint8
		dedup  bool
	)

	cmd := &cobra.Command{
		Use:   "build FILE.syx...",
		Short: "Concatenate patches into a bank, one slot each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patches := make([]*patch.Patch, 0, len(args))
			for _, name := range args {
				p, err := ctpatch.ReadFile(name)
				if err != nil {
					return err
				}
				patches = append(patches, p)
			}

			entries, err := bank.Assign(patches, start)
			if err != nil {
				return err
			}

			if dedup {
				var stats bank.DedupStats
				if entries, stats, err = bank.Dedup(entries, bank.WithLogger(a.logger)); err != nil {
					return err
				}
				a.logger.Info("removed duplicate patches", zap.Int("removed", stats.Dropped))
			}

			data, err := bank.Build(cmd.Context(), entries,
				bank.WithPackIndex(a.cfg.PackIndex), bank.WithLogger(a.logger))
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s (%d patches, pack %d)\n", output, len(entries), a.cfg.PackIndex)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output bank file")
	f.Uint8Var(&start, "start", 0, "slot of the first patch")
	f.BoolVar(&dedup, "dedup", false, "drop patches identical to an earlier one")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) bankSplitCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "split BANK.syx",
		Short: `Write every patch of a bank to "NN name.syx"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			entries, err := bank.Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
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

			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	return cmd
}

func (a *app) bankArchiveCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "archive BANK.syx",
		Short: "Compress a bank into a checksummed archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			archive, stats, err := bank.Archive(data,
				bank.WithCompression(a.cfg.Compression), bank.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if err := os.WriteFile(output, archive, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s: %s, %d -> %d bytes (%.1f%% saved)\n",
				output, stats.Algorithm, stats.OriginalSize, stats.CompressedSize, stats.SpaceSavings())

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output archive file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) bankExtractCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE",
		Short: "Restore a bank from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			hdr, err := bank.ReadArchiveHeader(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out, err := bank.Extract(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if err := os.WriteFile(output, out, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s (%d packets, %s)\n", output, hdr.Count, hdr.Compression)

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output bank file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) bankSendCmd() *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "send BANK.syx",
		Short: "Upload a bank to the synth",
		Long: `Upload a bank to the synth, pausing --delay between patches.

Patches are re-targeted at --pack, keeping their slots. With --restore they
are sent exactly as stored in the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if !restore {
				entries, err := bank.Parse(data)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}

				data, err = bank.Build(cmd.Context(), entries,
					bank.WithPackIndex(a.cfg.PackIndex), bank.WithLogger(a.logger))
				if err != nil {
					return err
				}
			}

			dev, err := a.openDevice(cmd.Context())
			if err != nil {
				return err
			}
			defer dev.Close()

			n, err := dev.SendBank(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "sent %d messages\n", n)

			return nil
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "send packets unchanged")

	return cmd
}
