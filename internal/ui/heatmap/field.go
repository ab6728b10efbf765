// Package heatmap renders a sensor grid as a colored map, either with
// ANSI backgrounds for the terminal or as a standalone SVG file.
//
// Values are row-major with x fastest, row 0 nearest the viewer (the
// back wall), matching how simulation results fold into the grid.
package heatmap

import (
	"fmt"
	"math"
)

// Field is a rectangular scalar field to plot.
type Field struct {
	NX, NY int
	Values []float64
}

// New wraps a row-major value vector. The vector length must match the
// grid dimensions.
func New(nx, ny int, values []float64) (Field, error) {
	if nx <= 0 || ny <= 0 {
		return Field{}, fmt.Errorf("heatmap: grid %dx%d is empty", nx, ny)
	}
	if len(values) != nx*ny {
		return Field{}, fmt.Errorf("heatmap: %d values for a %dx%d grid", len(values), nx, ny)
	}
	return Field{NX: nx, NY: ny, Values: values}, nil
}

// At returns the value at column i, row j.
func (f Field) At(i, j int) float64 {
	return f.Values[j*f.NX+i]
}

// MinMax returns the value extent of the field.
func (f Field) MinMax() (min, max float64) {
	if len(f.Values) == 0 {
		return 0, 0
	}
	min, max = f.Values[0], f.Values[0]
	for _, v := range f.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Scaled returns a copy with every value multiplied by s. Converting lux
// to daylight factor percent is Scaled(100/skyLux).
func (f Field) Scaled(s float64) Field {
	out := Field{NX: f.NX, NY: f.NY, Values: make([]float64, len(f.Values))}
	for i, v := range f.Values {
		out.Values[i] = v * s
	}
	return out
}

// Downsample shrinks the field so it is at most maxNX columns wide,
// averaging blocks of cells. Fields already narrow enough come back
// unchanged.
func (f Field) Downsample(maxNX int) Field {
	if maxNX <= 0 || f.NX <= maxNX {
		return f
	}

	stride := int(math.Ceil(float64(f.NX) / float64(maxNX)))
	nx := (f.NX + stride - 1) / stride
	ny := (f.NY + stride - 1) / stride

	out := Field{NX: nx, NY: ny, Values: make([]float64, nx*ny)}
	for bj := 0; bj < ny; bj++ {
		for bi := 0; bi < nx; bi++ {
			sum, n := 0.0, 0
			for j := bj * stride; j < (bj+1)*stride && j < f.NY; j++ {
				for i := bi * stride; i < (bi+1)*stride && i < f.NX; i++ {
					sum += f.At(i, j)
					n++
				}
			}
			out.Values[bj*nx+bi] = sum / float64(n)
		}
	}
	return out
}
