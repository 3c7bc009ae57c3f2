package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Faultbox/stairgen/internal/config"
	"github.com/Faultbox/stairgen/internal/logger"
	"github.com/Faultbox/stairgen/internal/report"
)

// Set at build time.
var version = "dev"

// app holds global flags and state shared by subcommands.
type app struct {
	configFile string
	outputFmt  string
	query      string
	quiet      bool
	overrides  config.Overrides

	cfg     *config.Config
	printer *report.Printer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "stairgen",
		Short: "Turn stair templates in VMF maps into ramps",
		Long: `stairgen finds template brushes in a Hammer map and replaces each one with a
sloped ramp of the same width, height and facing.

A template is a solid with five TOOLS/TOOLSSKIP faces and one SIGNS/STAIRS_RED
face; the red face marks the low end of the ramp. Material names and ramp
defaults can be changed in stairgen.yaml.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Sync() },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ./"+config.FileName+" or user config dir)")
	pf.BoolVar(&a.overrides.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&a.overrides.LogFile, "log-file", "", "Also write logs to this file (rotated)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress log output on stderr")
	pf.StringVar(&a.outputFmt, "output", "text", "Output format (text|table|json|yaml)")
	pf.StringVar(&a.query, "query", "", "jq expression to filter structured output")
	pf.StringVar(&a.overrides.Encoding, "encoding", "", "Map file charset (auto|utf-8|windows-1252)")
	pf.StringVar(&a.overrides.Marker, "marker", "", "Material of the template front face")
	pf.StringVar(&a.overrides.Skip, "skip", "", "Material of the other template faces")

	root.AddCommand(
		newGenerateCmd(a),
		newTemplatesCmd(a),
		newDumpCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration, starts logging and picks the output format.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile, a.overrides)
	if err != nil {
		// config init must work even when the current file is broken
		if !isConfigInit(cmd) {
			return err
		}
		cfg = config.Default()
	}
	a.cfg = cfg

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, !a.quiet); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Piped output defaults to JSON unless a format was asked for.
	formatStr := a.outputFmt
	if !cmd.Flags().Changed("output") && !isTerminal(cmd.OutOrStdout()) {
		formatStr = string(report.FormatJSON)
	}
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	a.printer = report.NewPrinter(cmd.OutOrStdout(), format, a.query)
	return nil
}

func isConfigInit(cmd *cobra.Command) bool {
	return cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config"
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
