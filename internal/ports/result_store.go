package ports

import (
	"context"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// ResultStore persists run history for listing and re-plotting.
type ResultStore interface {
	SaveRun(ctx context.Context, rec domain.RunRecord, points []domain.RunPoint) (id string, err error)
	GetRun(ctx context.Context, id string) (domain.RunRecord, error)
	ListRuns(ctx context.Context, f domain.RunFilter) ([]domain.RunRecord, error)
	GetPoints(ctx context.Context, id string) ([]domain.RunPoint, error)
}
