package main

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/engine"
)

func TestBoardFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantColumns int
		wantRows    int
		wantErr     bool
	}{
		{"unset keeps config", nil, 7, 6, false},
		{"override", []string{"--columns=9", "--rows=7"}, 9, 7, false},
		{"negative columns", []string{"--columns=-3"}, -3, 6, true},
		{"zero rows", []string{"--rows=0"}, 7, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "connect4"}
			cmd.Flags().IntVar(&flagColumns, "columns", 0, "")
			cmd.Flags().IntVar(&flagRows, "rows", 0, "")
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			cfg := config.DefaultConnect4Config()
			applyBoardFlags(cmd, &cfg)
			if cfg.Board.Columns != tt.wantColumns || cfg.Board.Rows != tt.wantRows {
				t.Errorf("board = %dx%d, want %dx%d", cfg.Board.Columns, cfg.Board.Rows, tt.wantColumns, tt.wantRows)
			}

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, engine.ErrInvalidConfiguration) {
					t.Errorf("Validate() = %v, want ErrInvalidConfiguration", err)
				}
			} else if err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
