package bot

import (
	"fmt"
	"strings"
)

// Difficulty selects the strategy the bot plays with.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every supported level in increasing strength.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty accepts a level name case-insensitively.
// An empty string selects Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "", "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return "", fmt.Errorf("bot: unknown difficulty %q (want easy, medium or hard)", s)
	}
}
