package radiance

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Photopic weighting used by the engine's own calc tools:
// illuminance = 179 * (0.265 R + 0.670 G + 0.065 B).
const (
	luminousEfficacy = 179.0
	redWeight        = 0.265
	greenWeight      = 0.670
	blueWeight       = 0.065
)

// Illuminance converts an rtrace irradiance triplet to lux.
func Illuminance(r, g, b float64) float64 {
	return luminousEfficacy * (redWeight*r + greenWeight*g + blueWeight*b)
}

// parseIrradiance reads rtrace -I -h output, one R G B triplet per line.
// Blank lines are tolerated; the point count must match the grid exactly.
func parseIrradiance(out []byte, want int) ([]float64, error) {
	lux := make([]float64, 0, want)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed rtrace line %q", line)
		}

		var rgb [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed rtrace line %q: %w", line, err)
			}
			rgb[i] = v
		}
		lux = append(lux, Illuminance(rgb[0], rgb[1], rgb[2]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(lux) != want {
		return nil, fmt.Errorf("rtrace returned %d points, want %d", len(lux), want)
	}
	return lux, nil
}
