package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/stairgen/internal/logger"
	"github.com/Faultbox/stairgen/internal/mapfile"
	"github.com/Faultbox/stairgen/internal/stairs"
)

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "templates <map.vmf>",
		Aliases: []string{"ls"},
		Short:   "List stair templates and their measured frames",
		Long: `List the stair templates found in a map with their facing, back-left-bottom
origin and size, and the length of the ramp each would become. Templates whose
facing cannot be determined are listed with the reason. The map is not
modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mapfile.Read(args[0], a.cfg.Input.Encoding)
			if err != nil {
				return err
			}
			results := stairs.New(stairs.OptionsFromConfig(a.cfg), logger.Log).Inspect(f.Doc)
			logger.Info("templates inspected", zap.String("path", args[0]), zap.Int("count", len(results)))
			return a.printer.Templates(results)
		},
	}
}
