package main

import (
	"github.com/spf13/cobra"

	"github.com/Faultbox/stairgen/internal/logger"
	"github.com/Faultbox/stairgen/internal/mapfile"
	"github.com/Faultbox/stairgen/internal/stairs"
)

func newDumpCmd(a *app) *cobra.Command {
	var normals bool

	cmd := &cobra.Command{
		Use:   "dump <map.vmf>",
		Short: "Print the parsed map tree",
		Long: `Print the parsed map tree. Text output is the map format itself; json and
yaml keep the document order and repeated keys. With --normals every template
side gets a "*normal" entry holding its computed outward normal.`,
		Example: `  stairgen dump de_dust.vmf --output yaml
  stairgen dump de_dust.vmf --query '.world.solid | length'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := mapfile.Read(args[0], a.cfg.Input.Encoding)
			if err != nil {
				return err
			}
			if normals {
				stairs.New(stairs.OptionsFromConfig(a.cfg), logger.Log).Inspect(f.Doc)
			}
			return a.printer.Document(f.Doc)
		},
	}
	cmd.Flags().BoolVar(&normals, "normals", false, "Annotate template sides with their normals")
	return cmd
}
