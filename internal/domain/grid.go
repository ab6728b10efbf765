package domain

// SensorPoint is one illuminance sensor on the workplane.
type SensorPoint struct {
	X, Y, Z float64
}

// SensorGrid is the workplane measurement grid for one space. Points are
// row-major with x fastest, which is also how result vectors fold back
// into an NY x NX matrix for plotting.
type SensorGrid struct {
	NX, NY   int
	GridSize float64
	Height   float64
	Points   []SensorPoint
}

// At returns the point at column i, row j.
func (g SensorGrid) At(i, j int) SensorPoint {
	return g.Points[j*g.NX+i]
}

// BuildGrid lays a centered nx by ny grid over the floor plan at the
// workplane height: nx = floor(width/g), ny = floor(depth/g), one sensor
// at the center of each cell.
func BuildGrid(s Space, p Params) (SensorGrid, error) {
	if err := p.ValidateFor(s); err != nil {
		return SensorGrid{}, err
	}

	nx := int(s.Width / p.GridSize)
	ny := int(s.Depth / p.GridSize)
	offX := (s.Width - float64(nx)*p.GridSize) / 2
	offY := (s.Depth - float64(ny)*p.GridSize) / 2

	g := SensorGrid{
		NX:       nx,
		NY:       ny,
		GridSize: p.GridSize,
		Height:   p.PlaneHeight,
		Points:   make([]SensorPoint, 0, nx*ny),
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			g.Points = append(g.Points, SensorPoint{
				X: offX + (float64(i)+0.5)*p.GridSize,
				Y: offY + (float64(j)+0.5)*p.GridSize,
				Z: p.PlaneHeight,
			})
		}
	}
	return g, nil
}
