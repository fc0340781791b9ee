package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/parkwalk/internal/levels"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long:  `Shows built-in levels plus any found in the levels directory.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	_, _, _, levelsDir := loadSetup()

	lvls, err := levels.NewLoader(levelsDir).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, lvl := range lvls {
		if len(lvl.ID) > maxIDLen {
			maxIDLen = len(lvl.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "ID", "Name", "Size")
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "--", "----", "----")

	// Print levels
	for _, lvl := range lvls {
		fmt.Printf("  %-*s  %-24s  %dx%d\n", maxIDLen, lvl.ID, lvl.Name, lvl.Width, lvl.Height)
	}

	fmt.Println()
	fmt.Println("Run 'parkwalk play <id>' to open a level.")
}
