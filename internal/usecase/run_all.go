package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

const defaultWorkers = 2

// RunAll simulates every space with windows in a model. Spaces without
// windows are skipped, not failed: interior rooms cannot be daylit.
type RunAll struct {
	models  ports.ModelLoader
	run     *RunAnalysis
	workers int
}

type RunAllOption func(*RunAll)

// WithWorkers bounds how many engine invocations run at once.
func WithWorkers(n int) RunAllOption {
	return func(uc *RunAll) {
		if n > 0 {
			uc.workers = n
		}
	}
}

func NewRunAll(ml ports.ModelLoader, run *RunAnalysis, opts ...RunAllOption) *RunAll {
	uc := &RunAll{
		models:  ml,
		run:     run,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// BatchItem is the outcome for one space of a batch run.
type BatchItem struct {
	SpaceCode string
	SpaceName string
	Result    domain.AnalysisResult
	Err       error
}

// BatchResult aggregates a whole-model run.
type BatchResult struct {
	ModelName string
	Items     []BatchItem
	Skipped   []string // Codes of windowless spaces.
	Duration  time.Duration
}

// Failures counts spaces whose simulation errored.
func (b BatchResult) Failures() int {
	n := 0
	for _, it := range b.Items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

// Passed counts spaces that met the compliance rule.
func (b BatchResult) Passed() int {
	n := 0
	for _, it := range b.Items {
		if it.Err == nil && it.Result.Verdict.Passed {
			n++
		}
	}
	return n
}

// Execute runs the model's spaces through the engine, a few at a time.
// A failed space does not stop the batch; its error lands in the item.
func (uc *RunAll) Execute(ctx context.Context, in RunInput) (BatchResult, error) {
	started := time.Now()

	model, err := uc.models.LoadModel(in.ModelPath)
	if err != nil {
		return BatchResult{}, err
	}

	batch := BatchResult{ModelName: model.Name}
	spaces := model.WithWindows()
	for _, s := range model.Spaces {
		if !s.HasWindows() {
			batch.Skipped = append(batch.Skipped, s.Code)
		}
	}

	batch.Items = make([]BatchItem, len(spaces))

	var g errgroup.Group
	g.SetLimit(uc.workers)
	for i, s := range spaces {
		i, s := i, s
		g.Go(func() error {
			item := BatchItem{SpaceCode: s.Code, SpaceName: s.LongName}
			if err := ctx.Err(); err != nil {
				item.Err = err
			} else {
				spaceIn := in
				spaceIn.SpaceCode = s.Code
				item.Result, item.Err = uc.run.ExecuteOn(ctx, model, spaceIn)
			}
			batch.Items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	batch.Duration = time.Since(started)
	return batch, ctx.Err()
}
