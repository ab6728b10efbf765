package domain

import "fmt"

// Params are the user-facing analysis knobs: the values the interactive
// flow prompts for plus the design sky level.
type Params struct {
	Transmittance float64 // Visible light transmittance of the glazing, in (0,1].
	GridSize      float64 // Sensor spacing in metres.
	PlaneHeight   float64 // Workplane height above the floor in metres.
	SkyLux        float64 // Horizontal illuminance of the overcast design sky.
}

// DefaultParams mirrors the defaults offered by the interactive prompts.
func DefaultParams() Params {
	return Params{
		Transmittance: 0.6,
		GridSize:      0.2,
		PlaneHeight:   0.5,
		SkyLux:        10000,
	}
}

// Validate checks the ranges that do not depend on a space.
func (p Params) Validate() error {
	if p.Transmittance <= 0 || p.Transmittance > 1 {
		return fmt.Errorf("transmittance must be in (0,1], got %g: %w", p.Transmittance, ErrInvalidParams)
	}
	if p.GridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %g: %w", p.GridSize, ErrInvalidParams)
	}
	if p.PlaneHeight < 0 {
		return fmt.Errorf("plane height must not be negative, got %g: %w", p.PlaneHeight, ErrInvalidParams)
	}
	if p.SkyLux <= 0 {
		return fmt.Errorf("sky illuminance must be positive, got %g: %w", p.SkyLux, ErrInvalidParams)
	}
	return nil
}

// ValidateFor additionally checks the params against a space's dimensions:
// the grid must fit at least one sensor and the workplane must sit below
// the ceiling.
func (p Params) ValidateFor(s Space) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.GridSize > s.Width || p.GridSize > s.Depth {
		return fmt.Errorf("grid size %g m does not fit the %g x %g m floor plan: %w",
			p.GridSize, s.Width, s.Depth, ErrInvalidParams)
	}
	if s.Height > 0 && p.PlaneHeight >= s.Height {
		return fmt.Errorf("plane height %g m is above the %g m ceiling: %w",
			p.PlaneHeight, s.Height, ErrInvalidParams)
	}
	return nil
}
