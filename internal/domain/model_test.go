package domain

import "testing"

func TestSpaceFitWindow(t *testing.T) {
	// 4 m wide, 3 m deep space. Back wall span is therefore 4 m.
	s := Space{Width: 4, Depth: 3}

	cases := []struct {
		name string
		in   Window
		want float64
	}{
		{
			name: "fits unchanged",
			in:   Window{Wall: WallBack, Width: 1.0, WallLength: 4.0, LocX: 1.5},
			want: 1.5,
		},
		{
			// Offset measured from the far end of a 10 m IFC wall that
			// runs past this space: real position is 10 - 8 - 1 = 1.
			name: "mirrored within the ifc wall",
			in:   Window{Wall: WallBack, Width: 1.0, WallLength: 10.0, LocX: 8.0},
			want: 1.0,
		},
		{
			name: "unmirrorable overhang clamped to wall end",
			in:   Window{Wall: WallBack, Width: 1.0, WallLength: 4.0, LocX: 3.5},
			want: 3.0,
		},
		{
			name: "negative offset clamped to wall start",
			in:   Window{Wall: WallBack, Width: 1.0, WallLength: 4.0, LocX: -0.3},
			want: 0,
		},
		{
			name: "wider than wall left alone",
			in:   Window{Wall: WallBack, Width: 5.0, WallLength: 10.0, LocX: 1.0},
			want: 1.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.FitWindow(tc.in)
			if got.LocX != tc.want {
				t.Fatalf("LocX = %g, want %g", got.LocX, tc.want)
			}
			span := s.WallSpan(tc.in.Wall)
			if tc.in.Width <= span && got.LocX+got.Width > span+1e-9 {
				t.Fatalf("window still overhangs: locX=%g width=%g span=%g", got.LocX, got.Width, span)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := Window{Wall: WallBack, LocX: 0.5, Width: 1.0}
	b := Window{Wall: WallBack, LocX: 1.2, Width: 1.0}
	c := Window{Wall: WallBack, LocX: 1.5, Width: 1.0}
	d := Window{Wall: WallLeft, LocX: 0.5, Width: 1.0}

	if !a.Overlaps(b) {
		t.Fatalf("expected overlap between a and b")
	}
	if a.Overlaps(c) {
		t.Fatalf("touching windows must not overlap")
	}
	if a.Overlaps(d) {
		t.Fatalf("windows on different walls must not overlap")
	}
}

func TestWindowBottomZ(t *testing.T) {
	if got := (Window{SillHeight: 0.1}).BottomZ(); got != 0.1 {
		t.Fatalf("expected sill fallback, got %g", got)
	}
	if got := (Window{SillHeight: 0.1, LocY: 0.9}).BottomZ(); got != 0.9 {
		t.Fatalf("expected LocY to win, got %g", got)
	}
}

func TestModelSpaceLookup(t *testing.T) {
	m := Model{Spaces: []Space{
		{Code: "A203", LongName: "Bedroom"},
		{Code: "A204", LongName: "Kitchen"},
		{Code: "B101", LongName: "Bedroom"},
	}}

	if s, ok := m.Space("a203"); !ok || s.Code != "A203" {
		t.Fatalf("expected case-insensitive code match, got %v %v", s, ok)
	}
	if s, ok := m.Space("kitchen"); !ok || s.Code != "A204" {
		t.Fatalf("expected unique long name match, got %v %v", s, ok)
	}
	if _, ok := m.Space("bedroom"); ok {
		t.Fatalf("ambiguous long name must not match")
	}
	if _, ok := m.Space("Z999"); ok {
		t.Fatalf("unknown code must not match")
	}
}

func TestSpaceWallSpan(t *testing.T) {
	s := Space{Width: 4, Depth: 6}
	if got := s.WallSpan(WallBack); got != 4 {
		t.Fatalf("back span = %g, want 4", got)
	}
	if got := s.WallSpan(WallRight); got != 6 {
		t.Fatalf("right span = %g, want 6", got)
	}
	if got := s.WallSpan("roof"); got != 0 {
		t.Fatalf("unknown wall span = %g, want 0", got)
	}
}

func TestModelWithWindows(t *testing.T) {
	m := Model{Spaces: []Space{
		{Code: "A1", Windows: []Window{{Tag: "W1"}}},
		{Code: "A2"},
	}}
	lit := m.WithWindows()
	if len(lit) != 1 || lit[0].Code != "A1" {
		t.Fatalf("expected only A1, got %v", lit)
	}
}
