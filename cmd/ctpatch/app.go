package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/ctpatch/format"
	"github.com/arloliu/ctpatch/internal/logging"
	"github.com/arloliu/ctpatch/transport"
)

type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        Config
	logger     *zap.Logger

	// flag values, applied over cfg when set
	flagPort        string
	flagDelay       time.Duration
	flagPack        uint16
	flagCompression string
	flagLogLevel    string
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, logger: zap.NewNop()}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "ctpatch",
		Short: "Novation Circuit Tracks patch tool",
		Long: `Read, write, compare, generate and upload Circuit Tracks synth patches.

Examples:
  ctpatch decode bass.syx > bass.yaml
  ctpatch encode bass.yaml -o bass.syx
  ctpatch generate --preset pad base.syx --out pads/ --bank
  ctpatch bank send pads/bank-pad-32-39.syx --pack 1`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "configuration file")
	pf.StringVar(&a.flagPort, "port", "", "raw MIDI device, e.g. /dev/snd/midiC1D0")
	pf.DurationVar(&a.flagDelay, "delay", transport.DefaultDelay, "pause between sent messages")
	pf.Uint16Var(&a.flagPack, "pack", 0, "pack index patches are stored into")
	pf.StringVar(&a.flagCompression, "compression", "zstd", "bank archive compression (none, zstd, s2, lz4)")
	pf.StringVar(&a.flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.decodeCmd(),
		a.encodeCmd(),
		a.compareCmd(),
		a.layoutCmd(),
		a.validateCmd(),
		a.generateCmd(),
		a.bankCmd(),
		a.requestCmd(),
		a.portsCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = a.flagPort
	}
	if flags.Changed("delay") {
		cfg.Delay = a.flagDelay
	}
	if flags.Changed("pack") {
		cfg.PackIndex = a.flagPack
	}
	if flags.Changed("compression") {
		ct, err := format.ParseCompression(a.flagCompression)
		if err != nil {
			return err
		}
		cfg.Compression = ct
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flagLogLevel
	}

	logger, err := logging.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

// openDevice opens the configured MIDI port.
func (a *app) openDevice(ctx context.Context) (*transport.Device, error) {
	port := a.cfg.Port
	if port == "" {
		var err error
		port, err = transport.FindPort(a.cfg.PortName)
		if err != nil {
			return nil, fmt.Errorf("%w (close other MIDI applications or set --port)", err)
		}
	}

	return transport.Open(ctx, port,
		transport.WithDelay(a.cfg.Delay),
		transport.WithOpenTimeout(a.cfg.OpenTimeout),
		transport.WithLogger(a.logger))
}
