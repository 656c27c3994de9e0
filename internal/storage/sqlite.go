// Package storage persists finished games and online matches in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-connect4/internal/multiplayer"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameResult is one finished local game.
type GameResult struct {
	ID         int64
	Variant    string // "connect4" or "connect4_cpu"
	Red        string
	Yellow     string
	WinnerSide string // "red", "yellow" or empty for a draw
	WinnerName string
	Draw       bool
	Moves      int
	Columns    int
	Rows       int
	Duration   int // Duration in seconds
	CreatedAt  time.Time
}

// OnlineMatchResult represents the outcome of an online match.
type OnlineMatchResult struct {
	ID            int64
	MatchID       string
	GameID        string
	RedSession    string
	YellowSession string
	WinnerSession string // Empty on a draw
	Winner        string // "red", "yellow" or empty
	EndReason     string // "won", "draw", "disconnect", "resigned", "turn_timeout"
	Moves         int
	Duration      int // Duration in seconds
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			variant TEXT NOT NULL,
			red_name TEXT NOT NULL,
			yellow_name TEXT NOT NULL,
			winner_side TEXT NOT NULL DEFAULT '',
			winner_name TEXT NOT NULL DEFAULT '',
			draw INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL,
			columns INTEGER NOT NULL,
			rows INTEGER NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_variant ON results(variant, created_at DESC);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			red_session TEXT NOT NULL,
			yellow_session TEXT NOT NULL,
			winner_session TEXT,
			winner TEXT NOT NULL DEFAULT '',
			end_reason TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_game_id ON online_matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_online_matches_red ON online_matches(red_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_yellow ON online_matches(yellow_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles both driver representations of a DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SaveResult records a finished local game and returns its ID.
func (s *Store) SaveResult(r GameResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results
		 (variant, red_name, yellow_name, winner_side, winner_name, draw, moves, columns, rows, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Variant, r.Red, r.Yellow, r.WinnerSide, r.WinnerName, r.Draw,
		r.Moves, r.Columns, r.Rows, r.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const resultColumns = `id, variant, red_name, yellow_name, winner_side, winner_name,
		        draw, moves, columns, rows, duration_secs, created_at`

func scanResult(row rowScanner) (GameResult, error) {
	var r GameResult
	var createdAt any
	err := row.Scan(
		&r.ID, &r.Variant, &r.Red, &r.Yellow, &r.WinnerSide, &r.WinnerName,
		&r.Draw, &r.Moves, &r.Columns, &r.Rows, &r.Duration, &createdAt,
	)
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// RecentResults returns the newest results, newest first. An empty variant
// matches every variant.
func (s *Store) RecentResults(variant string, limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR variant = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		variant, variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// ClearResults deletes the results of one variant.
func (s *Store) ClearResults(variant string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// ResultStats aggregates the results of one variant.
type ResultStats struct {
	Variant    string
	Games      int
	RedWins    int
	YellowWins int
	Draws      int
	AvgMoves   float64
	LastPlayed time.Time
}

const statsColumns = `COUNT(*),
		        COALESCE(SUM(winner_side = 'red'), 0),
		        COALESCE(SUM(winner_side = 'yellow'), 0),
		        COALESCE(SUM(draw), 0),
		        COALESCE(AVG(moves), 0),
		        MAX(created_at)`

// Stats returns aggregated statistics for a variant. A variant that was
// never played yields zero counts.
func (s *Store) Stats(variant string) (*ResultStats, error) {
	stats := &ResultStats{Variant: variant}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM results WHERE variant = ?`,
		variant,
	).Scan(&stats.Games, &stats.RedWins, &stats.YellowWins, &stats.Draws, &stats.AvgMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllStats returns statistics for every variant that has been played.
func (s *Store) AllStats() (map[string]*ResultStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, ` + statsColumns + `
		 FROM results
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ResultStats)
	for rows.Next() {
		var st ResultStats
		var lastPlayed any
		if err := rows.Scan(&st.Variant, &st.Games, &st.RedWins, &st.YellowWins, &st.Draws, &st.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Variant] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// SaveOnlineMatch records the result of an online match.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	var winnerSession sql.NullString
	if result.WinnerSession != "" {
		winnerSession = sql.NullString{String: result.WinnerSession, Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, red_session, yellow_session, winner_session, winner, end_reason, moves, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.GameID,
		result.RedSession,
		result.YellowSession,
		winnerSession,
		result.Winner,
		result.EndReason,
		result.Moves,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_id, red_session, yellow_session,
		        winner_session, winner, end_reason, moves, duration_secs, created_at`

func scanMatch(row rowScanner) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var createdAt any
	var winnerSession sql.NullString

	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.RedSession,
		&result.YellowSession,
		&winnerSession,
		&result.Winner,
		&result.EndReason,
		&result.Moves,
		&result.Duration,
		&createdAt,
	)
	result.WinnerSession = winnerSession.String
	result.CreatedAt = parseTime(createdAt)
	return result, err
}

// OnlineMatchByID retrieves an online match by its match ID. It returns nil
// without an error when no such match exists.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	result, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+`
		 FROM online_matches
		 WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent online matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM online_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory retrieves the matches a session played on either side.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+`
		 FROM online_matches
		 WHERE red_session = ? OR yellow_session = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
}

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:       data.MatchID,
		GameID:        data.GameID,
		RedSession:    data.RedSession,
		YellowSession: data.YellowSession,
		WinnerSession: data.WinnerSession,
		Winner:        data.Winner,
		EndReason:     data.EndReason,
		Moves:         data.Moves,
		Duration:      data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
