package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')  // Should not panic
	s.Set(100, 0, 'A') // Should not panic
	s.Set(0, -1, 'A')  // Should not panic
	s.Set(0, 100, 'A') // Should not panic

	// Out of bounds get should return space
	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(3, 3, '◆', ColorRed)
	cell := s.GetCell(3, 3)
	if cell.Rune != '◆' {
		t.Errorf("GetCell(3, 3).Rune = %q, expected '◆'", cell.Rune)
	}
	if cell.Color != ColorRed {
		t.Errorf("GetCell(3, 3).Color = %v, expected ColorRed", cell.Color)
	}

	// Out of bounds returns a default cell
	if c := s.GetCell(-1, -1); c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("out of bounds GetCell = %+v, expected blank default", c)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			s.SetColored(x, y, 'X', ColorGreen)
		}
	}

	s.Clear()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("Clear left %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.Set(2, 2, 'A')
	s.Set(9, 9, 'B')

	s.Resize(5, 5)
	if s.Width() != 5 || s.Height() != 5 {
		t.Errorf("size after Resize = %dx%d, expected 5x5", s.Width(), s.Height())
	}
	// Content inside the new bounds survives
	if s.Get(2, 2) != 'A' {
		t.Errorf("Get(2, 2) = %q after shrink, expected 'A'", s.Get(2, 2))
	}

	s.Resize(20, 20)
	if s.Get(2, 2) != 'A' {
		t.Errorf("Get(2, 2) = %q after grow, expected 'A'", s.Get(2, 2))
	}
	// New area is blank
	if s.Get(15, 15) != ' ' {
		t.Errorf("Get(15, 15) = %q in grown area, expected space", s.Get(15, 15))
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 3)

	s.DrawText(2, 1, "HELLO")
	want := "HELLO"
	for i, r := range want {
		if got := s.Get(2+i, 1); got != r {
			t.Errorf("Get(%d, 1) = %q, expected %q", 2+i, got, r)
		}
	}

	// Text running off the right edge clips silently
	s.DrawText(8, 0, "LONG")
	if s.Get(8, 0) != 'L' || s.Get(9, 0) != 'O' {
		t.Error("clipped text was not drawn up to the edge")
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawHLine(0, 2, 10, '▀')
	for x := 0; x < 10; x++ {
		if s.Get(x, 2) != '▀' {
			t.Errorf("Get(%d, 2) = %q, expected '▀'", x, s.Get(x, 2))
		}
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(2, 3, 4, 2, '█', ColorGreen)

	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			if c := s.GetCell(x, y); c.Rune != '█' || c.Color != ColorGreen {
				t.Errorf("GetCell(%d, %d) = %+v, expected green block", x, y, c)
			}
		}
	}
	if s.Get(1, 3) != ' ' || s.Get(6, 3) != ' ' {
		t.Error("FillRect spilled outside its bounds")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.Set(0, 0, 'A')
	s.Set(2, 1, 'B')

	got := s.String()
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("String() has %d lines, expected 2", len(lines))
	}
	if lines[0] != "A  " {
		t.Errorf("line 0 = %q, expected %q", lines[0], "A  ")
	}
	if lines[1] != "  B" {
		t.Errorf("line 1 = %q, expected %q", lines[1], "  B")
	}
}
