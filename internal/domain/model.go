package domain

import (
	"fmt"
	"strings"
)

// WallName identifies one of the four walls of a rectangular space.
// Back sits on the x axis (y = 0), front on y = depth, left on x = 0,
// right on x = width. Front faces north in the exported models.
type WallName string

const (
	WallBack  WallName = "back"
	WallFront WallName = "front"
	WallLeft  WallName = "left"
	WallRight WallName = "right"
)

// WallNames lists the legal wall names.
func WallNames() []WallName {
	return []WallName{WallBack, WallFront, WallLeft, WallRight}
}

// Valid reports whether the name is one of the four known walls.
func (w WallName) Valid() bool {
	switch w {
	case WallBack, WallFront, WallLeft, WallRight:
		return true
	}
	return false
}

// Window is a glazed opening in one wall of a space.
// Lengths and offsets are metres, measured from the wall's local origin.
type Window struct {
	Name       string // IFC product name, e.g. "M_Fixed:4835".
	Tag        string
	Width      float64
	Height     float64
	SillHeight float64 // Fallback sill height when LocY is zero.
	Wall       WallName
	WallLength float64
	LocX       float64 // Horizontal offset of the bottom-left corner along the wall.
	LocY       float64 // Vertical offset of the sill above the floor.
}

// BottomZ returns the sill height above the floor. LocY wins when present;
// SillHeight covers exports that only carry a sill value.
func (w Window) BottomZ() float64 {
	if w.LocY > 0 {
		return w.LocY
	}
	return w.SillHeight
}

// Area returns the glazed area in m².
func (w Window) Area() float64 {
	return w.Width * w.Height
}

// Overlaps reports whether two windows on the same wall intersect in plan.
// Touching edges do not count as an overlap.
func (w Window) Overlaps(o Window) bool {
	if w.Wall != o.Wall {
		return false
	}
	return w.LocX < o.LocX+o.Width && o.LocX < w.LocX+w.Width
}

// MaterialLayer is one layer of a wall build-up, outermost first.
type MaterialLayer struct {
	Material  string
	Thickness float64
}

// Wall carries inventory data for the model report. Analysis geometry is
// derived from the space dimensions, not from these records.
type Wall struct {
	Name     string
	Tag      string
	External bool
	Layers   []MaterialLayer
}

// Door is an external door, inventory only.
type Door struct {
	Name   string
	Tag    string
	Glazed bool
	Width  float64
	Height float64
}

// Space is a rectangular zone: Width along x, Depth along y, Height along z.
type Space struct {
	LongName string
	Code     string
	Width    float64
	Depth    float64
	Height   float64
	Windows  []Window
	Walls    []Wall
	Doors    []Door
}

// Label renders the space for listings: "Bedroom (A203)".
func (s Space) Label() string {
	switch {
	case s.LongName != "" && s.Code != "":
		return fmt.Sprintf("%s (%s)", s.LongName, s.Code)
	case s.LongName != "":
		return s.LongName
	default:
		return s.Code
	}
}

// FloorArea returns the floor area in m².
func (s Space) FloorArea() float64 {
	return s.Width * s.Depth
}

// HasWindows reports whether the space can be analyzed at all.
func (s Space) HasWindows() bool {
	return len(s.Windows) > 0
}

// WindowsOn returns the windows placed on the given wall.
func (s Space) WindowsOn(wall WallName) []Window {
	var out []Window
	for _, w := range s.Windows {
		if w.Wall == wall {
			out = append(out, w)
		}
	}
	return out
}

// WallSpan returns the in-plan length of the given wall.
func (s Space) WallSpan(wall WallName) float64 {
	switch wall {
	case WallBack, WallFront:
		return s.Width
	case WallLeft, WallRight:
		return s.Depth
	}
	return 0
}

// FitWindow normalizes a window placement onto the wall span of this space.
// IFC offsets are measured along the full IFC wall, which can be longer
// than the space wall and measured from either end. An offset whose window
// overhangs the space span is mirrored within the IFC wall; anything still
// out of range is clamped. Windows wider than their wall are returned
// unchanged so validation can report them.
func (s Space) FitWindow(w Window) Window {
	span := s.WallSpan(w.Wall)
	if span <= 0 || w.Width <= 0 || w.Width > span {
		return w
	}
	if w.LocX < 0 {
		w.LocX = 0
	}
	if w.LocX+w.Width > span {
		if m := w.WallLength - w.LocX - w.Width; m >= 0 && m+w.Width <= span {
			w.LocX = m
		} else {
			w.LocX = span - w.Width
		}
	}
	return w
}

// Model is a building: the spaces exported from an IFC model.
type Model struct {
	Name   string
	Spaces []Space
}

// Space finds a space by code, case-insensitively. A unique long name
// matches too, so interactive input like "bedroom" works.
func (m Model) Space(code string) (Space, bool) {
	for _, s := range m.Spaces {
		if strings.EqualFold(s.Code, code) {
			return s, true
		}
	}
	var hit Space
	n := 0
	for _, s := range m.Spaces {
		if strings.EqualFold(s.LongName, code) {
			hit = s
			n++
		}
	}
	if n == 1 {
		return hit, true
	}
	return Space{}, false
}

// Codes returns every space code in model order.
func (m Model) Codes() []string {
	out := make([]string, 0, len(m.Spaces))
	for _, s := range m.Spaces {
		out = append(out, s.Code)
	}
	return out
}

// WithWindows returns the spaces that have at least one window.
func (m Model) WithWindows() []Space {
	var out []Space
	for _, s := range m.Spaces {
		if s.HasWindows() {
			out = append(out, s)
		}
	}
	return out
}

// ModelRef is a lightweight reference to a model file on disk.
type ModelRef struct {
	Name string
	Path string
}
