package ports

import "github.com/mdjska/daylight-analysis/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
