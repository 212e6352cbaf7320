package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		if strings.TrimSpace(s.Row(y)) != "" {
			t.Fatalf("row %d should be blank, got %q", y, s.Row(y))
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'H', ColorBrightRed)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'H' || cell.Color != ColorBrightRed {
		t.Errorf("GetCell(5, 5) = %+v, expected H/BrightRed", cell)
	}

	// Out of bounds should be silent
	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(100, 0, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClearResetsColor(t *testing.T) {
	s := NewScreen(4, 4)
	for y := 0; y < 4; y++ {
		s.DrawHLine(0, y, 4, '#', ColorBrown)
	}
	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Fatalf("after Clear cell (%d,%d) = %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawTextClipsAndCounts(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextColored(2, 1, "Dobbin", ColorCyan)

	if got := s.Row(1)[2:8]; got != "Dobbin" {
		t.Errorf("row 1 = %q", got)
	}
	if s.GetCell(2, 1).Color != ColorCyan {
		t.Error("text should carry its color")
	}

	// Multi-byte runes occupy one cell each
	s.DrawText(17, 0, "⚡ab")
	if s.Get(17, 0) != '⚡' || s.Get(18, 0) != 'a' || s.Get(19, 0) != 'b' {
		t.Errorf("row 0 = %q", s.Row(0))
	}
}

func TestScreenResizePreservesContent(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(1, 1, 'x', ColorGreen)
	s.SetColored(4, 4, 'y', ColorGreen)

	s.Resize(3, 3)
	if s.Get(1, 1) != 'x' {
		t.Error("Resize should keep content inside the new bounds")
	}

	s.Resize(6, 6)
	if s.Get(4, 4) != ' ' {
		t.Error("content cut by a shrink should not come back")
	}
}

func TestScreenHLineClips(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawHLine(-2, 0, 14, '═', ColorWhite)

	if s.Row(0) != strings.Repeat("═", 10) {
		t.Errorf("row 0 = %q", s.Row(0))
	}
	if s.GetCell(0, 0).Color != ColorWhite {
		t.Error("line should carry its color")
	}
	if strings.TrimSpace(s.Row(1)) != "" {
		t.Errorf("row 1 = %q, want blank", s.Row(1))
	}
}
