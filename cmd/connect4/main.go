// connect4 plays Connect Four in the terminal, locally, against the
// computer, or online over SSH and websockets.
//
// Usage:
//
//	connect4 list                - List game modes
//	connect4 play <mode>         - Play a mode directly
//	connect4 menu                - Pick a mode interactively
//	connect4 serve               - Start the SSH and websocket servers
//	connect4 history [mode]      - Show finished games
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for a reproducible CPU
//	--db <path>         - Set database path (default: ~/.connect4/results.db)
//	--config <path>     - Load game settings from a YAML file
//	--log-level <lvl>   - debug, info, warn or error
//	--columns, --rows   - Override the board size
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connectfour"
	"github.com/vovakirdan/tui-connect4/internal/storage"
)

const defaultDBPath = "~/.connect4/results.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagColumns  int
	flagRows     int

	env config.Env
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "connect4",
	Short: "Connect Four in your terminal",
	Long: `Connect Four for the terminal: play a friend on the same keyboard,
challenge the computer, or host online matches over SSH and websockets.

Available commands:
  list     - Show all game modes
  play     - Play a mode directly
  menu     - Interactive menu
  serve    - Start SSH and websocket servers for online play
  history  - Show finished games

Examples:
  connect4 play connect4
  connect4 play connect4_cpu --difficulty hard
  connect4 menu --columns 9 --rows 7
  connect4 serve --ssh :2222 --ws :8080
  connect4 history connect4_cpu`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagColumns, "columns", 0, "Board columns (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagRows, "rows", 0, "Board rows (default from config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup reads .env, lets CONNECT4_* variables fill flags the user did not
// set, and applies the game configuration.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		return fmt.Errorf("cannot load .env: %w", err)
	}

	if !flagChanged(cmd, "db") {
		flagDBPath = config.Or(env.DBPath, flagDBPath)
	}
	if !flagChanged(cmd, "config") {
		flagConfig = config.Or(env.ConfigPath, flagConfig)
	}
	if !flagChanged(cmd, "log-level") {
		flagLogLevel = config.Or(env.LogLevel, flagLogLevel)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyBoardFlags(cmd, &cfg)
	if flagSeed != 0 && cfg.CPU.Seed == 0 {
		cfg.CPU.Seed = flagSeed
	}
	return connectfour.Configure(cfg)
}

// applyBoardFlags overrides the board size with --columns and --rows when
// they were given. Non-positive values are left for Validate to reject.
func applyBoardFlags(cmd *cobra.Command, cfg *config.Connect4Config) {
	if flagChanged(cmd, "columns") {
		cfg.Board.Columns = flagColumns
	}
	if flagChanged(cmd, "rows") {
		cfg.Board.Rows = flagRows
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// newLogger returns the stderr logger used by the servers.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "connect4",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the results database. Games still work without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}
