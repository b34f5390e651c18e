package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/codec"
	"github.com/arloliu/ctpatch/patch"
)

func (a *app) decodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode FILE.syx",
		Short: "Print a patch as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctpatch.ReadFile(args[0])
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(p)
			if err != nil {
				return err
			}

			return a.writeOutput(output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (a *app) encodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode FILE.yaml",
		Short: "Encode a YAML patch into a .syx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readYAML(args[0])
			if err != nil {
				return err
			}

			if err := ctpatch.WriteFile(output, p); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s (%d bytes)\n", output, patch.PacketSize(p.Command))

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .syx file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare A.syx B.syx",
		Short: "Show the parameters that differ between two patches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pa, err := ctpatch.ReadFile(args[0])
			if err != nil {
				return err
			}
			pb, err := ctpatch.ReadFile(args[1])
			if err != nil {
				return err
			}

			diff := cmp.Diff(pa, pb)
			if diff == "" {
				fmt.Fprintln(a.out, "patches are identical")
				return nil
			}

			fmt.Fprintf(a.out, "--- %s\n+++ %s\n%s", args[0], args[1], diff)

			return nil
		},
	}
}

func (a *app) layoutCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the byte layout of a patch packet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id patch.SysexCommand
			if err := id.UnmarshalText([]byte(command)); err != nil {
				return err
			}
			if _, ok := patch.PacketSizeFor(id); !ok {
				return fmt.Errorf("%s is not a patch command", id)
			}

			pick := func(_ string, u codec.Shape) int {
				for i, v := range u.Variants {
					if v.Tag == uint64(id) {
						return i
					}
				}

				return 0
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "OFFSET\tWIDTH\tLAYOUT\tFIELD")
			for _, r := range codec.Flatten(patch.Schema.Shape(), pick) {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", r.Offset, r.Width, r.Layout, r.Path)
				for _, b := range r.Bits {
					fmt.Fprintf(tw, "\t\tbit %d:%d\t  %s\n", b.Offset, b.Width, b.Name)
				}
			}

			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&command, "command", patch.CmdReplaceCurrentPatch.String(), "command variant to lay out")

	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE.syx...",
		Short: "Check that files hold valid patches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed []error
			for _, name := range args {
				p, err := ctpatch.ReadFile(name)
				if err != nil {
					fmt.Fprintf(a.out, "FAIL %v\n", err)
					failed = append(failed, err)

					continue
				}
				fmt.Fprintf(a.out, "ok   %s %q\n", name, p.Meta.DisplayName())
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files invalid: %w", len(failed), len(args), errors.Join(failed...))
			}

			return nil
		},
	}
}

func readYAML(name string) (*patch.Patch, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var p patch.Patch
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &p, nil
}

// writeOutput writes data to name, or to stdout when name is empty.
func (a *app) writeOutput(name string, data []byte) error {
	if name == "" {
		_, err := a.out.Write(data)
		return err
	}

	return os.WriteFile(name, data, 0o644)
}
