package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// --- fakes shared by the usecase tests ---

type fakeModelLoader struct {
	model domain.Model
	err   error
}

func (f fakeModelLoader) LoadModel(_ string) (domain.Model, error) {
	return f.model, f.err
}

func (f fakeModelLoader) ListModels(_ string) ([]domain.ModelRef, error) {
	return []domain.ModelRef{{Name: f.model.Name, Path: "model/test.json"}}, nil
}

type fakeMaterialsLoader struct {
	lib domain.MaterialsLibrary
	err error
}

func (f fakeMaterialsLoader) LoadMaterials(_ string) (domain.MaterialsLibrary, error) {
	if f.err != nil {
		return domain.MaterialsLibrary{}, f.err
	}
	if len(f.lib.Glass) == 0 && f.lib.Reflectances == (domain.SurfaceReflectances{}) {
		return domain.DefaultMaterials(), nil
	}
	return f.lib, nil
}

// stubSimulator answers with a constant lux level sized to the job's grid.
// Safe for concurrent use.
type stubSimulator struct {
	mu    sync.Mutex
	lux   float64
	err   error
	errOn map[string]error // Per-space failures by code.
	jobs  []domain.SimulationJob
}

func (s *stubSimulator) Simulate(_ context.Context, job domain.SimulationJob) (domain.SimulationOutput, error) {
	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()

	if s.err != nil {
		return domain.SimulationOutput{}, s.err
	}
	if err, ok := s.errOn[job.Space.Code]; ok {
		return domain.SimulationOutput{}, err
	}

	lux := make([]float64, len(job.Grid.Points))
	for i := range lux {
		lux[i] = s.lux
	}
	return domain.SimulationOutput{
		Lux:      lux,
		Engine:   domain.EngineInfo{Name: "rtrace", Version: "RADIANCE 5.4"},
		Duration: 42 * time.Millisecond,
	}, nil
}

func (s *stubSimulator) jobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *stubSimulator) lastJob() domain.SimulationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[len(s.jobs)-1]
}

// memStore records saves in memory.
type memStore struct {
	mu      sync.Mutex
	saveErr error
	recs    []domain.RunRecord
	points  [][]domain.RunPoint
}

func (m *memStore) SaveRun(_ context.Context, rec domain.RunRecord, points []domain.RunPoint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.recs = append(m.recs, rec)
	m.points = append(m.points, points)
	return "run-123", nil
}

func (m *memStore) GetRun(_ context.Context, _ string) (domain.RunRecord, error) {
	return domain.RunRecord{}, domain.ErrNotFound
}

func (m *memStore) ListRuns(_ context.Context, _ domain.RunFilter) ([]domain.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RunRecord(nil), m.recs...), nil
}

func (m *memStore) GetPoints(_ context.Context, _ string) ([]domain.RunPoint, error) {
	return nil, domain.ErrNotFound
}

func (m *memStore) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

func testModel() domain.Model {
	return domain.Model{
		Name: "Duplex",
		Spaces: []domain.Space{
			{
				LongName: "Living Room",
				Code:     "A203",
				Width:    4.0,
				Depth:    5.0,
				Height:   2.6,
				Windows: []domain.Window{
					{Tag: "W1", Width: 1.5, Height: 1.2, SillHeight: 0.9, Wall: domain.WallBack, LocX: 1.0, LocY: 0.9},
				},
			},
			{
				LongName: "Storage",
				Code:     "B205",
				Width:    2.0,
				Depth:    2.0,
				Height:   2.6,
			},
		},
	}
}

func testParams() domain.Params {
	return domain.Params{
		Transmittance: 0.6,
		GridSize:      0.5,
		PlaneHeight:   0.5,
		SkyLux:        10000,
	}
}

// --- RunAnalysis.Execute ---

func TestRunAnalysis_ComputesMetricsAndSaves(t *testing.T) {
	sim := &stubSimulator{lux: 250}
	store := &memStore{}
	uc := NewRunAnalysis(
		fakeModelLoader{model: testModel()},
		fakeMaterialsLoader{},
		sim,
		WithStore(store),
	)

	res, err := uc.Execute(context.Background(), RunInput{
		ModelPath: "model/duplex.json",
		SpaceCode: "A203",
		Params:    testParams(),
		Save:      true,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if res.Grid.NX != 8 || res.Grid.NY != 10 {
		t.Fatalf("grid = %dx%d, want 8x10", res.Grid.NX, res.Grid.NY)
	}
	if len(res.Lux) != 80 {
		t.Fatalf("lux points = %d, want 80", len(res.Lux))
	}
	if res.Stats.Mean != 250 {
		t.Errorf("mean = %g, want 250", res.Stats.Mean)
	}
	// 250 lux over a 10000 lux sky is DF 2.5, above the 2.1 target.
	if res.DF.ShareAtLeast != 1.0 {
		t.Errorf("share = %g, want 1.0", res.DF.ShareAtLeast)
	}
	if !res.Verdict.Passed {
		t.Errorf("verdict = %q, want pass", res.Verdict.Message)
	}
	if res.RunID != "run-123" {
		t.Errorf("run id = %q, want run-123", res.RunID)
	}
	if res.Engine.Name != "rtrace" {
		t.Errorf("engine = %q, want rtrace", res.Engine.Name)
	}

	if store.saved() != 1 {
		t.Fatalf("saved runs = %d, want 1", store.saved())
	}
	rec := store.recs[0]
	if rec.SpaceCode != "A203" || rec.NX != 8 || rec.NY != 10 || !rec.Passed || rec.Error != "" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if got := len(store.points[0]); got != 80 {
		t.Errorf("saved points = %d, want 80", got)
	}
}

func TestRunAnalysis_GlassPresetOverridesTransmittance(t *testing.T) {
	sim := &stubSimulator{lux: 100}
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, sim)

	_, err := uc.Execute(context.Background(), RunInput{
		SpaceCode:   "A203",
		Params:      testParams(),
		GlassPreset: "double-lowe",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if got := sim.lastJob().Params.Transmittance; got != 0.65 {
		t.Fatalf("job transmittance = %g, want preset 0.65", got)
	}
}

func TestRunAnalysis_UnknownPreset(t *testing.T) {
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, &stubSimulator{lux: 1})

	_, err := uc.Execute(context.Background(), RunInput{
		SpaceCode:   "A203",
		Params:      testParams(),
		GlassPreset: "quadruple-mystery",
	})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "double-clear") {
		t.Fatalf("expected error to list presets, got: %v", err)
	}
}

func TestRunAnalysis_UnknownSpace(t *testing.T) {
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, &stubSimulator{lux: 1})

	_, err := uc.Execute(context.Background(), RunInput{SpaceCode: "Z999", Params: testParams()})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestRunAnalysis_WindowlessSpace(t *testing.T) {
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, &stubSimulator{lux: 1})

	_, err := uc.Execute(context.Background(), RunInput{SpaceCode: "B205", Params: testParams()})
	if !domain.IsKind(err, domain.KindInvalidParams) {
		t.Fatalf("expected KindInvalidParams, got: %v", err)
	}
}

func TestRunAnalysis_BadParams(t *testing.T) {
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, &stubSimulator{lux: 1})

	in := RunInput{SpaceCode: "A203", Params: testParams()}
	in.Params.GridSize = 9.5 // Wider than the 4 m floor plan.

	_, err := uc.Execute(context.Background(), in)
	if !domain.IsKind(err, domain.KindInvalidParams) {
		t.Fatalf("expected KindInvalidParams, got: %v", err)
	}
}

func TestRunAnalysis_EngineFailureStillRecorded(t *testing.T) {
	boom := errors.New("rtrace exploded")
	sim := &stubSimulator{err: boom}
	store := &memStore{}
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, sim, WithStore(store))

	res, err := uc.Execute(context.Background(), RunInput{
		SpaceCode: "A203",
		Params:    testParams(),
		Save:      true,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected simulation error, got: %v", err)
	}

	if store.saved() != 1 {
		t.Fatalf("saved runs = %d, want failed run recorded", store.saved())
	}
	rec := store.recs[0]
	if !rec.Failed() || !strings.Contains(rec.Error, "rtrace exploded") {
		t.Fatalf("record error = %q, want failure recorded", rec.Error)
	}
	if rec.Passed {
		t.Fatalf("failed run must not pass")
	}
	if res.RunID != "run-123" {
		t.Fatalf("run id = %q, want failed run id returned", res.RunID)
	}
}

func TestRunAnalysis_NoSaveWhenDisabled(t *testing.T) {
	store := &memStore{}
	uc := NewRunAnalysis(fakeModelLoader{model: testModel()}, fakeMaterialsLoader{}, &stubSimulator{lux: 1}, WithStore(store))

	_, err := uc.Execute(context.Background(), RunInput{SpaceCode: "A203", Params: testParams(), Save: false})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if store.saved() != 0 {
		t.Fatalf("saved runs = %d, want none", store.saved())
	}
}

func TestRunAnalysis_LoaderErrorPassesThrough(t *testing.T) {
	wantErr := &domain.OpError{Op: "jsonmodel.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
	uc := NewRunAnalysis(fakeModelLoader{err: wantErr}, fakeMaterialsLoader{}, &stubSimulator{lux: 1})

	_, err := uc.Execute(context.Background(), RunInput{SpaceCode: "A203", Params: testParams()})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected loader error, got: %v", err)
	}
}
