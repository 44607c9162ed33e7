package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NREL/bamcensus/internal/geoid"
)

var geoidCmd = &cobra.Command{
	Use:   "geoid",
	Short: "Inspect and transform geographic identifiers",
}

var geoidParseCmd = &cobra.Command{
	Use:   "parse <geoid>...",
	Short: "Parse GEOID strings and report their level",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		for _, raw := range args {
			g, err := geoid.Parse(raw)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", g.Type(), geoid.Label(g))
		}
		return nil
	},
}

var geoidTruncateCmd = &cobra.Command{
	Use:   "truncate <geoid> <level>",
	Short: "Truncate a GEOID to an ancestor level",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		g, err := geoid.Parse(args[0])
		if err != nil {
			return err
		}
		lvl, err := geoid.ParseGeoidType(args[1])
		if err != nil {
			return err
		}
		truncated, err := geoid.Truncate(g, lvl)
		if err != nil {
			return err
		}
		fmt.Println(truncated.String())
		return nil
	},
}

var geoidStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List all state identifiers with their abbreviations",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, g := range geoid.AllStates() {
			abbr, err := geoid.StateAbbreviation(g)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", g.String(), abbr)
		}
		return nil
	},
}

func init() {
	geoidCmd.AddCommand(geoidParseCmd, geoidTruncateCmd, geoidStatesCmd)
	rootCmd.AddCommand(geoidCmd)
}
