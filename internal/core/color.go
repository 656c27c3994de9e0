package core

// Color is the foreground colour of a screen cell.
// The platform maps each value to a terminal colour.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorYellow
	ColorBlue
	ColorCyan
	ColorGreen
	ColorMagenta
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightYellow
	ColorBrightWhite
)
