package heatmap

import "math"

// Blurred smooths the field with a separable gaussian of the given
// sigma, in cells. Edges clamp to the border value so the footprint
// keeps its extent. Sigma at or below zero is a no-op.
func (f Field) Blurred(sigma float64) Field {
	if sigma <= 0 || len(f.Values) == 0 {
		return f
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	tmp := make([]float64, len(f.Values))
	out := make([]float64, len(f.Values))

	// Horizontal pass.
	for j := 0; j < f.NY; j++ {
		for i := 0; i < f.NX; i++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * f.At(clamp(i+k, f.NX-1), j)
			}
			tmp[j*f.NX+i] = sum
		}
	}

	// Vertical pass.
	g := Field{NX: f.NX, NY: f.NY, Values: tmp}
	for j := 0; j < f.NY; j++ {
		for i := 0; i < f.NX; i++ {
			sum := 0.0
			for k := -radius; k <= radius; k++ {
				sum += kernel[k+radius] * g.At(i, clamp(j+k, f.NY-1))
			}
			out[j*f.NX+i] = sum
		}
	}

	return Field{NX: f.NX, NY: f.NY, Values: out}
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for k := -radius; k <= radius; k++ {
		v := math.Exp(-float64(k*k) / (2 * sigma * sigma))
		kernel[k+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
