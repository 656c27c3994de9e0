package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/registry"
	"github.com/vovakirdan/tui-connect4/internal/storage"
)

var (
	flagHistoryLimit int
	flagOnline       bool
	flagSession      string
	flagMatch        string
	flagClear        bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show finished games",
	Long: `Display statistics and the most recent finished games.

Without a mode, every mode is summarised. With --online, the most recent
online matches are listed instead.

Examples:
  connect4 history
  connect4 history connect4_cpu
  connect4 history --online
  connect4 history --online --session ssh-1b4e28ba
  connect4 history --match 9f0c2a6e-4d1b-4f7e-9a43-2c7f3b1d8e55
  connect4 history connect4 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of games to list")
	historyCmd.Flags().BoolVar(&flagOnline, "online", false, "List online matches")
	historyCmd.Flags().StringVar(&flagSession, "session", "", "With --online, only list matches this session played")
	historyCmd.Flags().StringVar(&flagMatch, "match", "", "Show one online match by ID")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the results of the given mode")
}

func runHistory(_ *cobra.Command, args []string) error {
	variant := ""
	if len(args) == 1 {
		variant = args[0]
		if !registry.Exists(variant) {
			return fmt.Errorf("unknown mode %q, run 'connect4 list' to see available modes", variant)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagClear:
		if variant == "" {
			return fmt.Errorf("--clear needs a mode")
		}
		if err := store.ClearResults(variant); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s.\n", variant)
		return nil
	case flagMatch != "":
		return printMatch(store, flagMatch)
	case flagOnline:
		return printOnline(store)
	case variant == "":
		return printAll(store)
	default:
		return printVariant(store, variant)
	}
}

func printAll(store *storage.Store) error {
	stats, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'connect4 play connect4' to record the first one!")
		return nil
	}

	variants := make([]string, 0, len(stats))
	for v := range stats {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	fmt.Println("Statistics")
	fmt.Println()
	for _, v := range variants {
		printStats(stats[v])
	}
	fmt.Println()
	return printResults(store, "")
}

func printVariant(store *storage.Store, variant string) error {
	stats, err := store.Stats(variant)
	if err != nil {
		return err
	}

	title := variant
	if g, err := registry.Create(variant); err == nil {
		title = g.Title()
	}
	fmt.Printf("History - %s\n", title)
	fmt.Println()

	if stats.Games == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'connect4 play %s' to record the first one!\n", variant)
		return nil
	}
	printStats(stats)
	fmt.Println()
	return printResults(store, variant)
}

func printStats(s *storage.ResultStats) {
	fmt.Printf("  %-14s %3d games  red %d  yellow %d  draws %d  avg %.1f moves  last %s\n",
		s.Variant, s.Games, s.RedWins, s.YellowWins, s.Draws, s.AvgMoves,
		s.LastPlayed.Format("2006-01-02 15:04"))
}

func printResults(store *storage.Store, variant string) error {
	results, err := store.RecentResults(variant, flagHistoryLimit)
	if err != nil {
		return err
	}

	fmt.Printf("  %-4s  %-14s  %-22s  %-5s  %-5s  %s\n", "#", "Mode", "Winner", "Moves", "Board", "Date")
	fmt.Printf("  %-4s  %-14s  %-22s  %-5s  %-5s  %s\n", "-", "----", "------", "-----", "-----", "----")
	for i, r := range results {
		winner := "draw"
		if !r.Draw {
			winner = fmt.Sprintf("%s (%s)", r.WinnerName, r.WinnerSide)
		}
		fmt.Printf("  %-4d  %-14s  %-22s  %-5d  %-5s  %s\n",
			i+1, r.Variant, winner, r.Moves, fmt.Sprintf("%dx%d", r.Columns, r.Rows),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printMatch(store *storage.Store, matchID string) error {
	m, err := store.OnlineMatchByID(matchID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no online match %q", matchID)
	}

	winner := m.Winner
	if winner == "" {
		winner = "none"
	}
	fmt.Printf("Match    %s\n", m.MatchID)
	fmt.Printf("Game     %s\n", m.GameID)
	fmt.Printf("Red      %s\n", m.RedSession)
	fmt.Printf("Yellow   %s\n", m.YellowSession)
	fmt.Printf("Winner   %s\n", winner)
	fmt.Printf("Reason   %s\n", m.EndReason)
	fmt.Printf("Moves    %d\n", m.Moves)
	fmt.Printf("Duration %ds\n", m.Duration)
	fmt.Printf("Played   %s\n", m.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func printOnline(store *storage.Store) error {
	var (
		matches []storage.OnlineMatchResult
		err     error
	)
	if flagSession != "" {
		matches, err = store.PlayerMatchHistory(flagSession, flagHistoryLimit)
	} else {
		matches, err = store.RecentOnlineMatches(flagHistoryLimit)
	}
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No online matches recorded yet.")
		return nil
	}

	fmt.Println("Online matches")
	fmt.Println()
	fmt.Printf("  %-8s  %-12s  %-7s  %-5s  %-8s  %s\n", "Match", "Reason", "Winner", "Moves", "Duration", "Date")
	fmt.Printf("  %-8s  %-12s  %-7s  %-5s  %-8s  %s\n", "-----", "------", "------", "-----", "--------", "----")
	for _, m := range matches {
		winner := m.Winner
		if winner == "" {
			winner = "-"
		}
		id := m.MatchID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("  %-8s  %-12s  %-7s  %-5d  %-8s  %s\n",
			id, m.EndReason, winner, m.Moves, fmt.Sprintf("%ds", m.Duration),
			m.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
