package domain

import (
	"math"
	"strings"
)

// SurfaceReflectances are the diffuse reflectances of the opaque room
// surfaces used when writing scene materials.
type SurfaceReflectances struct {
	Wall    float64
	Ceiling float64
	Floor   float64
}

// DefaultReflectances are the usual daylighting assumptions for bare rooms.
func DefaultReflectances() SurfaceReflectances {
	return SurfaceReflectances{Wall: 0.50, Ceiling: 0.80, Floor: 0.20}
}

// GlassPreset names a glazing product and its visible light transmittance.
type GlassPreset struct {
	Name          string
	Transmittance float64
}

// MaterialsLibrary is the workspace materials file: surface reflectances
// plus the glazing presets offered by the interactive picker.
type MaterialsLibrary struct {
	Reflectances SurfaceReflectances
	Glass        []GlassPreset
}

// Preset finds a glass preset by name, case-insensitively.
func (l MaterialsLibrary) Preset(name string) (GlassPreset, bool) {
	for _, g := range l.Glass {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return GlassPreset{}, false
}

// DefaultMaterials is used when the workspace has no materials file.
func DefaultMaterials() MaterialsLibrary {
	return MaterialsLibrary{
		Reflectances: DefaultReflectances(),
		Glass: []GlassPreset{
			{Name: "single-clear", Transmittance: 0.88},
			{Name: "double-clear", Transmittance: 0.78},
			{Name: "double-lowe", Transmittance: 0.65},
			{Name: "triple-clear", Transmittance: 0.60},
			{Name: "triple-lowe", Transmittance: 0.55},
		},
	}
}

// Transmissivity converts visible transmittance to the transmissivity
// value Radiance glass primitives expect.
func Transmissivity(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return (math.Sqrt(0.8402528435+0.0072522239*t*t) - 0.9166530661) / 0.0036261119 / t
}
