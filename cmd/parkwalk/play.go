package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/parkwalk/internal/core"
	"github.com/vovakirdan/parkwalk/internal/levels"
	"github.com/vovakirdan/parkwalk/internal/platform/tui"
	"github.com/vovakirdan/parkwalk/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <level>",
	Short: "Open a level",
	Long: `Open the specified level in build mode.

Controls:
  W/A/S/D    - Move cursor
  Space      - Place selected block
  X          - Remove a placed block
  Tab        - Cycle inventory entry
  P          - Start/pause the run
  R          - Reset the run
  Esc        - Back (pause first, then menu)
  Q/Ctrl+C   - Quit

Pace options:
  relaxed - Slower agents, easier to follow
  normal  - Stock speeds
  brisk   - Faster agents

Examples:
  parkwalk play park-01
  parkwalk play park-02 --pace relaxed
  parkwalk play my-level --levels ./levels`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	levelID := args[0]

	_, params, dbPath, levelsDir := loadSetup()

	lvl, err := levels.NewLoader(levelsDir).LoadByID(levelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'parkwalk list' to see available levels.")
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: params.TickRate,
	}

	// Open run storage
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the level still works
		store = nil
	}

	// Run the level
	runErr := tui.Run(lvl, store, cfg, params)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running level: %v\n", runErr)
		os.Exit(1)
	}
}
