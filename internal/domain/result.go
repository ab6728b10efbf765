package domain

import "time"

// EngineInfo records which engine produced a result.
type EngineInfo struct {
	Name    string
	Version string
}

// EngineCheck is one binary availability probe from the doctor.
type EngineCheck struct {
	Binary  string
	Path    string
	Version string
	Err     string
}

// OK reports whether the binary was found.
func (c EngineCheck) OK() bool {
	return c.Err == ""
}

// SimulationJob is everything the engine needs to simulate one space.
type SimulationJob struct {
	ModelName    string
	Space        Space
	Params       Params
	Grid         SensorGrid
	Reflectances SurfaceReflectances
}

// SimulationOutput is the raw engine result before metrics are derived.
type SimulationOutput struct {
	Lux      []float64 // Aligned with the job's grid points.
	Engine   EngineInfo
	SceneDir string // Retained on disk for inspection.
	Duration time.Duration
}

// AnalysisResult is the outcome of one simulation of one space.
type AnalysisResult struct {
	ModelName string
	Space     Space
	Params    Params
	Grid      SensorGrid
	Lux       []float64 // Aligned with Grid.Points.

	Stats   Stats
	DF      DFStats
	Verdict Verdict

	Engine   EngineInfo
	Duration time.Duration
	RunID    string // Empty when the run was not persisted.
}

// RunRecord is the persisted form of a run, as listed from the store.
type RunRecord struct {
	ID        string
	ModelName string
	SpaceCode string
	SpaceName string

	Params Params
	NX, NY int

	Stats    Stats
	DFShare  float64
	TargetDF float64
	Passed   bool

	Engine EngineInfo
	Error  string // Non-empty when the run failed.

	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed reports whether the run ended in an engine or pipeline error.
func (r RunRecord) Failed() bool {
	return r.Error != ""
}

// PointCount returns the number of sensors the run measured.
func (r RunRecord) PointCount() int {
	return r.NX * r.NY
}

// RunPoint is one persisted sensor reading.
type RunPoint struct {
	Idx  int
	X, Y float64
	Lux  float64
}

// RunFilter narrows run listings.
type RunFilter struct {
	SpaceCode string // Empty matches every space.
	Limit     int    // Zero means no limit.
}
