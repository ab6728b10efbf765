package ports

import (
	"context"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// Simulator runs the daylighting engine over a sensor grid.
type Simulator interface {
	Simulate(ctx context.Context, job domain.SimulationJob) (domain.SimulationOutput, error)
}
