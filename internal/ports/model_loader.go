package ports

import "github.com/mdjska/daylight-analysis/internal/domain"

// ModelLoader loads IFC-derived building models from a source (e.g., filesystem).
type ModelLoader interface {
	LoadModel(path string) (domain.Model, error)
	ListModels(root string) ([]domain.ModelRef, error)
}
