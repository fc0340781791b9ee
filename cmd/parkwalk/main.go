// parkwalk is a terminal puzzle platform: guide walking agents through a
// grid park by placing blocks, then watch the run play out.
//
// Usage:
//
//	parkwalk list              - List available levels
//	parkwalk play <level>      - Open a level
//	parkwalk menu              - Start the interactive level picker
//	parkwalk serve             - Start SSH server for remote play
//	parkwalk scores <level>    - Show recorded runs for a level
//	parkwalk validate <file>   - Check level files without opening them
//
// Global flags:
//
//	--config <path> - Path to a custom config YAML
//	--fps <rate>    - Set tick rate (default from config, 60)
//	--db <path>     - Set database path (default: ~/.parkwalk/runs.db)
//	--levels <dir>  - Directory of extra level files
//	--pace <name>   - Pace preset: relaxed, normal, brisk
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/parkwalk/internal/config"
	"github.com/vovakirdan/parkwalk/internal/sim"
)

var (
	// Global flags
	flagConfig    string
	flagFPS       int
	flagDBPath    string
	flagLevelsDir string
	flagPace      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "parkwalk",
	Short: "A Walk in the Park - terminal grid puzzler",
	Long: `parkwalk is a terminal puzzle platform. Agents walk across a grid
park on their own; you place blocks before the run to steer them into
every key and lock.

Available commands:
  list      - Show all available levels
  play      - Open a specific level directly
  menu      - Interactive level picker
  serve     - Start SSH server for remote play
  scores    - View recorded runs
  validate  - Check level files

Examples:
  parkwalk list
  parkwalk play park-01
  parkwalk menu
  parkwalk serve --ssh :2222
  parkwalk scores park-01
  parkwalk validate ./my-level.yaml`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = use config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to runs database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of extra level files")
	rootCmd.PersistentFlags().StringVar(&flagPace, "pace", "", "Pace preset: relaxed, normal, brisk")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadSetup resolves the effective config, applying flag overrides on
// top of the loaded file.
func loadSetup() (cfg config.ParkConfig, params sim.Params, dbPath, levelsDir string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}

	if flagPace != "" {
		config.ApplyPacePreset(&cfg, config.PacePreset(flagPace))
	}
	if flagFPS > 0 {
		cfg.Simulation.TickRate = flagFPS
	}

	dbPath = cfg.Paths.Database
	if flagDBPath != "" {
		dbPath = flagDBPath
	}
	if dbPath == "" {
		dbPath = "~/.parkwalk/runs.db"
	}

	levelsDir = cfg.Paths.LevelsDir
	if flagLevelsDir != "" {
		levelsDir = flagLevelsDir
	}

	return cfg, cfg.Params(), dbPath, levelsDir
}
