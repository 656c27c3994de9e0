package core

// RuntimeConfig is handed to a game on every reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Ticks per second
	Seed     int64 // RNG seed, 0 lets the platform pick one
}

// DefaultConfig returns an 80x24 screen at 30 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// Status summarises a running game for the platform.
type Status struct {
	Moves    int  // Chips placed so far
	GameOver bool // The game reached a terminal phase
	Paused   bool
}

// StepResult is returned from every Game.Step call.
type StepResult struct {
	State Status
	// Message is a one-shot hint raised this tick, such as a rejected drop.
	Message string
}
