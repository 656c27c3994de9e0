package core

// Action is a semantic input, decoupled from the physical key that caused it.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Left arrow, A, H: move the column cursor left
	ActionRight          // Right arrow, D, L: move the column cursor right
	ActionDrop           // Space, Enter, Down: drop a chip at the cursor
	ActionUp             // Menu navigation
	ActionDown           // Menu navigation
	ActionConfirm        // Enter in menus
	ActionBack           // Escape, B: leave the current screen
	ActionRestart        // R: start a new game after the current one ends
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDrop:
		return "Drop"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame holds every action triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// FrameOf builds a frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered this tick.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was triggered this tick.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether nothing was triggered.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return true
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
