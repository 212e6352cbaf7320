package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for race elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorBrown
)

// LaneColor returns the palette color for the given lane index.
func LaneColor(lane int) Color {
	palette := [...]Color{
		ColorBrightRed,
		ColorBrightBlue,
		ColorBrightGreen,
		ColorBrightYellow,
		ColorBrightMagenta,
		ColorBrightCyan,
		ColorOrange,
		ColorWhite,
	}
	if lane < 0 {
		lane = -lane
	}
	return palette[lane%len(palette)]
}
