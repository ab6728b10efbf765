package ports

import (
	"context"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// EngineDoctor probes the external engine binaries.
type EngineDoctor interface {
	Check(ctx context.Context) []domain.EngineCheck
}
