package main

import (
	"fmt"
	"io"
	"os"

	"github.com/birdayz/kcombinator"
	"github.com/birdayz/kcombinator/pkg/log"
	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cli holds the global flags and what PersistentPreRunE derives from them.
type cli struct {
	configPath string
	color      string
	verbose    bool

	cfg    config
	log    logr.Logger
	engine *kcombinator.Engine
	out    *printer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "kcomb",
		Short:         "Inspect entry-point resolution of processing units",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&c.color, "color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log resolution steps")

	root.AddCommand(newResolveCmd(c))
	root.AddCommand(newCandidatesCmd(c))
	root.AddCommand(newGraphCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg := defaultConfig()
	if c.configPath != "" {
		var err error
		if cfg, err = loadConfig(c.configPath); err != nil {
			return err
		}
	}
	c.cfg = cfg

	useColor, err := colorEnabled(c.color, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	c.out = newPrinter(cmd.OutOrStdout(), useColor)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.verbose && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	c.log = log.Logr(log.New(log.Config{Level: level, Out: cmd.ErrOrStderr(), NoColor: !useColor}), "kcomb")

	opts, err := cfg.engineOptions()
	if err != nil {
		return err
	}
	c.engine = kcombinator.New(append(opts, kcombinator.WithLogr(c.log.WithName("engine")))...)
	return nil
}

func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid --color %q (want auto|on|off)", mode)
}
