package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NREL/bamcensus/internal/geoid"
	"github.com/NREL/bamcensus/internal/tiger"
)

var locateCmd = &cobra.Command{
	Use:   "locate <geoid>...",
	Short: "Show the TIGER/Line files covering a set of geographies",
	Long: `Resolves GEOID strings to the minimal set of TIGER/Line ZIP files covering
them for a vintage year, without downloading anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetUint64("year")

		builder, err := tiger.NewBuilderWithBase(year, cfg.Tiger.BaseURL)
		if err != nil {
			return err
		}

		geoids := make([]geoid.Geoid, 0, len(args))
		for _, raw := range args {
			g, err := geoid.Parse(raw)
			if err != nil {
				return err
			}
			geoids = append(geoids, g)
		}

		resources, err := builder.Resources(geoids)
		if err != nil {
			return err
		}
		for _, res := range resources {
			scope := "national"
			if res.FileScope != nil {
				scope = "per " + res.FileScope.String()
			}
			fmt.Printf("%s\t%s rows\t%s\n", res.URI, res.GeoidType, scope)
		}
		return nil
	},
}

func init() {
	locateCmd.Flags().Uint64("year", 2020, "TIGER/Line vintage year")
	rootCmd.AddCommand(locateCmd)
}
