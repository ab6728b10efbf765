package ports

import "github.com/mdjska/daylight-analysis/internal/domain"

// MaterialsLoader loads the optical materials library.
type MaterialsLoader interface {
	LoadMaterials(path string) (domain.MaterialsLibrary, error)
}
