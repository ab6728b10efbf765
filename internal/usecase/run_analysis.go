package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

// RunAnalysis simulates one space under the overcast design sky and
// derives illuminance statistics, daylight factors and the compliance
// verdict from the engine output.
type RunAnalysis struct {
	models    ports.ModelLoader
	materials ports.MaterialsLoader
	simulator ports.Simulator
	store     ports.ResultStore
	rule      domain.ComplianceRule
	now       func() time.Time
}

type RunOption func(*RunAnalysis)

// WithStore persists finished runs, failed ones included.
func WithStore(s ports.ResultStore) RunOption {
	return func(uc *RunAnalysis) { uc.store = s }
}

// WithRule replaces the default compliance rule.
func WithRule(r domain.ComplianceRule) RunOption {
	return func(uc *RunAnalysis) { uc.rule = r }
}

// WithClock fixes run timestamps in tests.
func WithClock(now func() time.Time) RunOption {
	return func(uc *RunAnalysis) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewRunAnalysis(ml ports.ModelLoader, mal ports.MaterialsLoader, sim ports.Simulator, opts ...RunOption) *RunAnalysis {
	uc := &RunAnalysis{
		models:    ml,
		materials: mal,
		simulator: sim,
		rule:      domain.DefaultComplianceRule(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RunInput selects the space and parameters for one simulation.
type RunInput struct {
	ModelPath     string
	MaterialsPath string
	SpaceCode     string
	Params        domain.Params
	GlassPreset   string // Overrides Params.Transmittance when set.
	Save          bool   // Persist the run when a store is configured.
}

func (uc *RunAnalysis) Execute(ctx context.Context, in RunInput) (domain.AnalysisResult, error) {
	model, err := uc.models.LoadModel(in.ModelPath)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return uc.ExecuteOn(ctx, model, in)
}

// ExecuteOn runs against an already loaded model, so interactive callers
// can reuse the picker's copy.
func (uc *RunAnalysis) ExecuteOn(ctx context.Context, model domain.Model, in RunInput) (domain.AnalysisResult, error) {
	space, ok := model.Space(in.SpaceCode)
	if !ok {
		return domain.AnalysisResult{}, &domain.OpError{
			Op:   "usecase.run",
			Kind: domain.KindNotFound,
			Err: fmt.Errorf("space %q not in model %q (have %s)",
				in.SpaceCode, model.Name, strings.Join(model.Codes(), ", ")),
		}
	}
	if !space.HasWindows() {
		return domain.AnalysisResult{}, &domain.OpError{
			Op:   "usecase.run",
			Kind: domain.KindInvalidParams,
			Err:  fmt.Errorf("space %s has no windows, nothing to daylight", space.Label()),
		}
	}

	lib, err := uc.materials.LoadMaterials(in.MaterialsPath)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	params := in.Params
	if in.GlassPreset != "" {
		preset, ok := lib.Preset(in.GlassPreset)
		if !ok {
			return domain.AnalysisResult{}, &domain.OpError{
				Op:   "usecase.run",
				Kind: domain.KindNotFound,
				Err:  fmt.Errorf("glass preset %q not in library (have %s)", in.GlassPreset, presetNames(lib)),
			}
		}
		params.Transmittance = preset.Transmittance
	}

	grid, err := domain.BuildGrid(space, params)
	if err != nil {
		return domain.AnalysisResult{}, &domain.OpError{
			Op:   "usecase.run",
			Kind: domain.KindInvalidParams,
			Err:  err,
		}
	}

	job := domain.SimulationJob{
		ModelName:    model.Name,
		Space:        space,
		Params:       params,
		Grid:         grid,
		Reflectances: lib.Reflectances,
	}

	started := uc.now()
	out, simErr := uc.simulator.Simulate(ctx, job)
	finished := uc.now()

	res := domain.AnalysisResult{
		ModelName: model.Name,
		Space:     space,
		Params:    params,
		Grid:      grid,
		Engine:    out.Engine,
		Duration:  out.Duration,
	}
	if simErr == nil {
		res.Lux = out.Lux
		res.Stats = domain.ComputeStats(out.Lux)
		res.DF = domain.ComputeDFStats(out.Lux, params.SkyLux, uc.rule.TargetDF)
		res.Verdict = uc.rule.Evaluate(res.DF)
	}

	if uc.store != nil && in.Save {
		rec := buildRecord(model.Name, space, params, grid, res, simErr, started, finished)
		id, saveErr := uc.store.SaveRun(ctx, rec, buildPoints(grid, res.Lux))
		if saveErr != nil {
			if simErr != nil {
				return res, simErr
			}
			return res, saveErr
		}
		res.RunID = id
	}

	if simErr != nil {
		return res, simErr
	}
	return res, nil
}

func buildRecord(modelName string, space domain.Space, params domain.Params, grid domain.SensorGrid,
	res domain.AnalysisResult, simErr error, started, finished time.Time) domain.RunRecord {
	rec := domain.RunRecord{
		ModelName:  modelName,
		SpaceCode:  space.Code,
		SpaceName:  space.LongName,
		Params:     params,
		NX:         grid.NX,
		NY:         grid.NY,
		StartedAt:  started,
		FinishedAt: finished,
		Engine:     res.Engine,
	}
	if simErr != nil {
		rec.Error = simErr.Error()
		return rec
	}
	rec.Stats = res.Stats
	rec.DFShare = res.DF.ShareAtLeast
	rec.TargetDF = res.DF.TargetDF
	rec.Passed = res.Verdict.Passed
	return rec
}

func buildPoints(grid domain.SensorGrid, lux []float64) []domain.RunPoint {
	if len(lux) != len(grid.Points) {
		return nil
	}
	points := make([]domain.RunPoint, len(lux))
	for i, p := range grid.Points {
		points[i] = domain.RunPoint{Idx: i, X: p.X, Y: p.Y, Lux: lux[i]}
	}
	return points
}

func presetNames(lib domain.MaterialsLibrary) string {
	names := make([]string, 0, len(lib.Glass))
	for _, g := range lib.Glass {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}
