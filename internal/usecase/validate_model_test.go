package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

func TestValidateModel_WarnsOnWindowlessSpaces(t *testing.T) {
	uc := NewValidateModel(fakeModelLoader{model: testModel()})

	model, warnings, err := uc.Execute(context.Background(), "model/duplex.json")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if model.Name != "Duplex" {
		t.Errorf("model = %q, want Duplex", model.Name)
	}

	var windowless bool
	for _, w := range warnings {
		if strings.Contains(w, "B205") && strings.Contains(w, "no windows") {
			windowless = true
		}
	}
	if !windowless {
		t.Fatalf("expected windowless warning for B205, got: %v", warnings)
	}
}

func TestValidateModel_WarnsOnLowGlazing(t *testing.T) {
	m := testModel()
	// One 0.5 x 0.5 window on a 4 x 5 floor is well under a tenth of the area.
	m.Spaces[0].Windows = []domain.Window{
		{Tag: "W1", Width: 0.5, Height: 0.5, SillHeight: 0.9, Wall: domain.WallBack, LocX: 1.0, LocY: 0.9},
	}
	uc := NewValidateModel(fakeModelLoader{model: m})

	_, warnings, err := uc.Execute(context.Background(), "model/duplex.json")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	var low bool
	for _, w := range warnings {
		if strings.Contains(w, "A203") && strings.Contains(w, "glazing") {
			low = true
		}
	}
	if !low {
		t.Fatalf("expected low glazing warning, got: %v", warnings)
	}
}

func TestValidateModel_LoaderErrorPassesThrough(t *testing.T) {
	wantErr := &domain.OpError{Op: "jsonmodel.validate", Kind: domain.KindInvalidConfig, Err: domain.ErrInvalidConfig}
	uc := NewValidateModel(fakeModelLoader{err: wantErr})

	_, _, err := uc.Execute(context.Background(), "model/bad.json")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got: %v", err)
	}
}
