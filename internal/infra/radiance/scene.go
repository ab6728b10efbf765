// Package radiance writes Radiance scene files and drives the engine binaries.
package radiance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// File names inside a run's scene folder.
const (
	materialsFile = "materials.rad"
	skyFile       = "sky.rad"
	roomFile      = "room.rad"
	gridFile      = "grid.pts"
	octreeFile    = "scene.oct"
)

// WriteScene renders the engine input files for one job into dir.
func WriteScene(dir string, job domain.SimulationJob) error {
	files := map[string]string{
		materialsFile: materialsRad(job.Reflectances, job.Params.Transmittance),
		skyFile:       skyRad(job.Params.SkyLux),
		roomFile:      roomRad(job.Space),
		gridFile:      gridPts(job.Grid),
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return &domain.OpError{
				Op:   "radiance.scene",
				Kind: domain.KindExecution,
				Path: p,
				Err:  err,
			}
		}
	}
	return nil
}

func materialsRad(r domain.SurfaceReflectances, vlt float64) string {
	var b strings.Builder
	writePlastic(&b, "wall_mat", r.Wall)
	writePlastic(&b, "ceiling_mat", r.Ceiling)
	writePlastic(&b, "floor_mat", r.Floor)

	tn := domain.Transmissivity(vlt)
	fmt.Fprintf(&b, "void glass glazing_mat\n0\n0\n3 %.6f %.6f %.6f\n", tn, tn, tn)
	return b.String()
}

func writePlastic(b *strings.Builder, name string, refl float64) {
	fmt.Fprintf(b, "void plastic %s\n0\n0\n5 %.3f %.3f %.3f 0 0\n\n", name, refl, refl, refl)
}

// skyRad renders a CIE overcast sky scaled to the design illuminance.
// gensky -B takes diffuse horizontal irradiance; dividing lux by the
// luminous efficacy constant converts from illuminance.
func skyRad(skyLux float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "!gensky -ang 45 0 -c -B %.4f\n\n", skyLux/luminousEfficacy)
	b.WriteString(`skyfunc glow sky_mat
0
0
4 1 1 1 0

sky_mat source sky
0
0
4 0 0 1 180

skyfunc glow ground_glow
0
0
4 1 .8 .5 0

ground_glow source ground
0
0
4 0 0 -1 180
`)
	return b.String()
}

// roomRad renders the box room. Walls that carry windows are decomposed
// into rectangles around each opening; the openings themselves are filled
// with glazing polygons. Every polygon normal points into the room.
func roomRad(s domain.Space) string {
	var b strings.Builder

	writePolygon(&b, "floor_mat", "floor", []point{
		{0, 0, 0}, {s.Width, 0, 0}, {s.Width, s.Depth, 0}, {0, s.Depth, 0},
	})
	writePolygon(&b, "ceiling_mat", "ceiling", []point{
		{0, 0, s.Height}, {0, s.Depth, s.Height}, {s.Width, s.Depth, s.Height}, {s.Width, 0, s.Height},
	})

	for _, wall := range domain.WallNames() {
		wins := s.WindowsOn(wall)
		for i, r := range wallRects(s.WallSpan(wall), s.Height, wins) {
			q := wallQuad(s, wall, r)
			writePolygon(&b, "wall_mat", fmt.Sprintf("%s_wall_%d", wall, i+1), q[:])
		}
		for i, w := range wins {
			r := rect{w.LocX, w.BottomZ(), w.LocX + w.Width, w.BottomZ() + w.Height}
			q := wallQuad(s, wall, r)
			name := sanitizeID(w.Tag)
			if name == "" {
				name = fmt.Sprintf("%s_glz_%d", wall, i+1)
			}
			writePolygon(&b, "glazing_mat", name, q[:])
		}
	}
	return b.String()
}

// gridPts renders one sensor per line: position plus an upward normal.
func gridPts(g domain.SensorGrid) string {
	var b strings.Builder
	for _, p := range g.Points {
		fmt.Fprintf(&b, "%.6f %.6f %.6f 0 0 1\n", p.X, p.Y, p.Z)
	}
	return b.String()
}

type point struct {
	x, y, z float64
}

// rect is a wall-local rectangle: u runs along the wall, v runs up.
type rect struct {
	u0, v0, u1, v1 float64
}

// wallRects decomposes a wall span into rectangles around its window
// openings. Windows were normalized at load time, so their spans sit
// inside the wall and do not overlap.
func wallRects(span, height float64, wins []domain.Window) []rect {
	sorted := append([]domain.Window(nil), wins...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LocX < sorted[j].LocX })

	var out []rect
	u := 0.0
	for _, w := range sorted {
		x0, x1 := w.LocX, w.LocX+w.Width
		bottom := w.BottomZ()
		top := bottom + w.Height
		if x0 > u {
			out = append(out, rect{u, 0, x0, height})
		}
		if bottom > 0 {
			out = append(out, rect{x0, 0, x1, bottom})
		}
		if top < height {
			out = append(out, rect{x0, top, x1, height})
		}
		u = x1
	}
	if u < span {
		out = append(out, rect{u, 0, span, height})
	}
	return out
}

// wallPoint maps a wall-local (u,v) coordinate into the space.
func wallPoint(s domain.Space, wall domain.WallName, u, v float64) point {
	switch wall {
	case domain.WallBack:
		return point{u, 0, v}
	case domain.WallFront:
		return point{u, s.Depth, v}
	case domain.WallLeft:
		return point{0, u, v}
	default: // WallRight
		return point{s.Width, u, v}
	}
}

// wallQuad orders a wall-local rectangle so the polygon normal points
// into the room.
func wallQuad(s domain.Space, wall domain.WallName, r rect) [4]point {
	p := func(u, v float64) point { return wallPoint(s, wall, u, v) }
	switch wall {
	case domain.WallBack:
		return [4]point{p(r.u0, r.v0), p(r.u0, r.v1), p(r.u1, r.v1), p(r.u1, r.v0)}
	case domain.WallFront:
		return [4]point{p(r.u0, r.v0), p(r.u1, r.v0), p(r.u1, r.v1), p(r.u0, r.v1)}
	case domain.WallLeft:
		return [4]point{p(r.u0, r.v0), p(r.u1, r.v0), p(r.u1, r.v1), p(r.u0, r.v1)}
	default: // WallRight
		return [4]point{p(r.u0, r.v0), p(r.u0, r.v1), p(r.u1, r.v1), p(r.u1, r.v0)}
	}
}

func writePolygon(b *strings.Builder, mat, name string, pts []point) {
	fmt.Fprintf(b, "%s polygon %s\n0\n0\n%d", mat, name, len(pts)*3)
	for _, p := range pts {
		fmt.Fprintf(b, "\n  %.6f %.6f %.6f", p.x, p.y, p.z)
	}
	b.WriteString("\n\n")
}

// sanitizeID collapses whitespace so IFC tags work as scene identifiers.
func sanitizeID(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
