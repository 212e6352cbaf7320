package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-derby/internal/core"
)

// ansiCode maps core.Color to the terminal color it renders as.
func ansiCode(c core.Color) string {
	switch c {
	case core.ColorRed:
		return "1"
	case core.ColorGreen:
		return "2"
	case core.ColorYellow:
		return "3"
	case core.ColorBlue:
		return "4"
	case core.ColorMagenta:
		return "5"
	case core.ColorCyan:
		return "6"
	case core.ColorWhite:
		return "7"
	case core.ColorBrightRed:
		return "9"
	case core.ColorBrightGreen:
		return "10"
	case core.ColorBrightYellow:
		return "11"
	case core.ColorBrightBlue:
		return "12"
	case core.ColorBrightMagenta:
		return "13"
	case core.ColorBrightCyan:
		return "14"
	case core.ColorBrightWhite:
		return "15"
	case core.ColorOrange:
		return "208"
	case core.ColorGray:
		return "245"
	case core.ColorBrown:
		return "94"
	default:
		return ""
	}
}

// styleFor returns the lipgloss style for a cell color.
func styleFor(c core.Color) lipgloss.Style {
	code := ansiCode(c)
	if code == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
