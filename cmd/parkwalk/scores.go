package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/parkwalk/internal/levels"
	"github.com/vovakirdan/parkwalk/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show recorded runs for a level",
	Long: `Display the top 10 runs for the specified level. Winning runs
sort first, fastest first.

Examples:
  parkwalk scores park-01
  parkwalk scores park-02`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	levelID := args[0]

	_, _, dbPath, levelsDir := loadSetup()

	// Resolve the level so typos get a helpful error
	lvl, err := levels.NewLoader(levelsDir).LoadByID(levelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'parkwalk list' to see available levels.")
		os.Exit(1)
	}

	// Open run storage
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Runs(levelID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	// Display runs
	fmt.Printf("Runs - %s\n", lvl.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'parkwalk play %s' to record the first run!\n", levelID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-7s  %-7s  %s\n", "Rank", "Ticks", "Blocks", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-7s  %-7s  %s\n", "----", "-----", "------", "------", "----")

	// Print runs
	for i, entry := range runs {
		result := "lost"
		if entry.Won {
			result = "won"
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-7d  %-7s  %s\n", i+1, entry.Ticks, entry.BlocksPlaced, result, dateStr)
	}

	// Show best winning run
	fmt.Println()
	best, err := store.BestRun(levelID)
	if err == nil && best != nil {
		fmt.Printf("Best: %d ticks with %d blocks\n", best.Ticks, best.BlocksPlaced)
	}
}
