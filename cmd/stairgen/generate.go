package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/stairgen/internal/config"
	"github.com/Faultbox/stairgen/internal/logger"
	"github.com/Faultbox/stairgen/internal/mapfile"
	"github.com/Faultbox/stairgen/internal/stairs"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <map.vmf>",
		Short: "Replace every stair template with a ramp",
		Long: `Replace every stair template in the map with a ramp.

The map is rewritten in place unless -o is given. Before an in-place rewrite
the original is saved next to it as <map>.bak.zst.

With --on-error abort (default) the first template whose facing cannot be
determined stops the run and nothing is written. With --on-error continue
such templates are left untouched, the rest are converted, and the command
still exits with an error.`,
		Example: `  stairgen generate de_dust.vmf
  stairgen generate de_dust.vmf -o de_dust_ramps.vmf
  stairgen generate de_dust.vmf --on-error continue --output table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.overrides.Output, "out", "o", "", "Write the result here instead of overwriting the input")
	f.StringVar(&a.overrides.OnError, "on-error", "", "What to do with a bad template (abort|continue)")
	f.BoolVar(&a.overrides.NoBackup, "no-backup", false, "Do not back up the input before overwriting it")
	return cmd
}

func (a *app) generate(path string) error {
	cfg := a.cfg
	log := logger.Log

	f, err := mapfile.Read(path, cfg.Input.Encoding)
	if err != nil {
		return err
	}
	log.Debug("map loaded", zap.String("path", path), zap.String("charset", f.Charset), zap.Bool("zstd", f.Compressed))

	opts := stairs.OptionsFromConfig(cfg)
	rep, runErr := stairs.New(opts, log).Run(f.Doc)
	if rep == nil {
		return runErr
	}
	if runErr != nil && opts.Policy == stairs.Abort {
		if err := a.printer.Report(rep); err != nil {
			return err
		}
		return fmt.Errorf("%w (nothing written)", runErr)
	}

	out := cfg.Generate.Output
	if out == "" {
		out = path
	}
	if out == path && rep.Generated() == 0 {
		log.Info("no ramps generated, map left unchanged", zap.String("path", path))
	} else if err := a.save(f, path, out, cfg); err != nil {
		return multierr.Append(err, runErr)
	}

	if err := a.printer.Report(rep); err != nil {
		return err
	}
	return runErr
}

func (a *app) save(f *mapfile.File, in, out string, cfg *config.Config) error {
	log := logger.Log
	if out == in && cfg.Generate.Backup {
		backup, err := mapfile.Backup(in)
		if err != nil {
			return err
		}
		log.Info("backup written", zap.String("path", backup))
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Info("map written", zap.String("path", out))
	return nil
}
