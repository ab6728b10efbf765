package usecase

import (
	"context"
	"fmt"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

// ValidateModel loads a model through the strict loader and reports
// conditions that are legal but worth knowing before a batch run.
type ValidateModel struct {
	models ports.ModelLoader
}

func NewValidateModel(ml ports.ModelLoader) *ValidateModel {
	return &ValidateModel{models: ml}
}

func (uc *ValidateModel) Execute(ctx context.Context, path string) (domain.Model, []string, error) {
	if err := ctx.Err(); err != nil {
		return domain.Model{}, nil, err
	}

	model, err := uc.models.LoadModel(path)
	if err != nil {
		return domain.Model{}, nil, err
	}

	var warnings []string
	for _, s := range model.Spaces {
		if !s.HasWindows() {
			warnings = append(warnings,
				fmt.Sprintf("space %s has no windows and will be skipped by batch runs", s.Label()))
			continue
		}
		if area := glazingArea(s); area < 0.1*s.FloorArea() {
			warnings = append(warnings,
				fmt.Sprintf("space %s glazing is %.1f m2 for %.1f m2 of floor, expect low daylight factors",
					s.Label(), area, s.FloorArea()))
		}
	}

	return model, warnings, nil
}

func glazingArea(s domain.Space) float64 {
	total := 0.0
	for _, w := range s.Windows {
		total += w.Area()
	}
	return total
}
