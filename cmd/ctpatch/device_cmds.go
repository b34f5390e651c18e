package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/ctpatch"
	"github.com/arloliu/ctpatch/transport"
)

func (a *app) requestCmd() *cobra.Command {
	var (
		location uint8
		output   string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Fetch the patch currently loaded on the synth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			dev, err := a.openDevice(ctx)
			if err != nil {
				return err
			}
			defer dev.Close()

			p, err := dev.RequestCurrentPatch(ctx, location)
			if err != nil {
				return err
			}

			if output != "" {
				if err := ctpatch.WriteFile(output, p); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s %q\n", output, p.Meta.DisplayName())

				return nil
			}

			data, err := yaml.Marshal(p)
			if err != nil {
				return err
			}
			_, err = a.out.Write(data)

			return err
		},
	}

	f := cmd.Flags()
	f.Uint8Var(&location, "location", 0, "synth whose patch to fetch (0 or 1)")
	f.StringVarP(&output, "output", "o", "", "write a .syx file instead of printing YAML")
	f.DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the synth")

	return cmd
}

func (a *app) portsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List sound cards and their raw MIDI ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := transport.ListCards()
			if err != nil {
				return err
			}

			for _, c := range cards {
				fmt.Fprintf(a.out, "%d [%s] %s\n", c.Index, c.ID, c.Name)
				for _, p := range c.Ports {
					fmt.Fprintf(a.out, "    %s\n", p)
				}
			}

			return nil
		},
	}
}
