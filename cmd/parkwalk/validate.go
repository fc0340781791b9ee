package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/parkwalk/internal/levels"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check level files without opening them",
	Long: `Parse the given level files and load each into a throwaway session.
Reports schema errors, unpaired teleporters, blocked transporter routes
and any blocks skipped for not fitting the grid.

Examples:
  parkwalk validate ./my-level.yaml
  parkwalk validate levels/*.json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	loader := levels.NewLoader("")
	failed := 0

	for _, path := range args {
		lvl, err := loader.LoadFile(path)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
			continue
		}

		session := sim.NewSession(sim.DefaultParams())
		warnings, err := session.LoadLevel(lvl.LevelDescription)
		if err != nil {
			fmt.Printf("FAIL  %s: %v\n", path, err)
			failed++
			continue
		}

		if len(warnings) > 0 {
			fmt.Printf("WARN  %s (%s)\n", path, lvl.ID)
			for _, w := range warnings {
				fmt.Printf("      %s\n", w)
			}
			continue
		}

		fmt.Printf("OK    %s (%s, %dx%d, %d agents)\n",
			path, lvl.ID, lvl.Width, lvl.Height, len(lvl.Lems))
	}

	if failed > 0 {
		os.Exit(1)
	}
}
