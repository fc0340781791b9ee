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

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive level picker",
	Long: `Start parkwalk in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to open a level.
After leaving a level, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Open level
  Tab          - Run history
  Q            - Quit

Examples:
  parkwalk menu
  parkwalk menu --pace brisk
  parkwalk menu --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	_, params, dbPath, levelsDir := loadSetup()

	// Open run storage
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	lvls, err := levels.NewLoader(levelsDir).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: params.TickRate,
	}

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(lvls, store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants the run history
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(lvls, store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.Level == nil {
			break
		}

		// Run the level
		if err := tui.Run(*menuResult.Level, store, cfg, params); err != nil {
			fmt.Fprintf(os.Stderr, "Error running level: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
