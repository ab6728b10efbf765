package xlsxreport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

func inventoryModel() domain.Model {
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
					{
						Name:       "M_Fixed:4835",
						Tag:        "W1",
						Width:      1.2,
						Height:     1.4,
						SillHeight: 0.8,
						Wall:       domain.WallBack,
					},
				},
				Walls: []domain.Wall{
					{
						Name:     "Basic Wall:Exterior",
						Tag:      "WL1",
						External: true,
						Layers: []domain.MaterialLayer{
							{Material: "Brick", Thickness: 0.108},
							{Material: "Insulation", Thickness: 0.2},
							{Material: "Concrete", Thickness: 0.1},
						},
					},
					{Name: "Basic Wall:Interior", Tag: "WL2"},
				},
				Doors: []domain.Door{
					{Name: "M_Door:Terrace", Tag: "D1", Glazed: true, Width: 0.9, Height: 2.1},
					{Name: "M_Door:Entry", Tag: "D2", Width: 1.0, Height: 2.1},
				},
			},
			{
				LongName: "Bedroom",
				Code:     "B101",
				Width:    3.0,
				Depth:    3.5,
				Height:   2.5,
			},
		},
	}
}

func TestWriteInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "duplex.xlsx")

	if err := NewWriter().WriteInventory(inventoryModel(), path); err != nil {
		t.Fatalf("WriteInventory() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	want := []string{"Assumptions", "Spaces", "Windows", "External Doors", "Walls"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for _, name := range want {
		if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
			t.Errorf("sheet %q missing (idx %d, err %v)", name, idx, err)
		}
	}

	cells := []struct {
		sheet string
		cell  string
		want  string
	}{
		{"Assumptions", "A1", "Assumptions"},
		{"Assumptions", "B3", "Windows"},
		{"Assumptions", "C6", "0.09 W/m2K"},
		{"Spaces", "A1", "Space Name"},
		{"Spaces", "B2", "A203"},
		{"Spaces", "C2", "4"},
		{"Spaces", "A3", "Bedroom"},
		{"Windows", "C2", "M_Fixed:4835"},
		{"Windows", "G2", "0.8"},
		{"External Doors", "E2", "Glazed"},
		{"External Doors", "E3", "Solid"},
		{"Walls", "F1", "# Layers"},
		{"Walls", "G1", "Material 1"},
		{"Walls", "K1", "Material 3"},
		{"Walls", "G2", "Brick"},
		{"Walls", "F3", "0"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestWriteInventoryBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "taken")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewWriter().WriteInventory(inventoryModel(), filepath.Join(blocker, "out.xlsx"))
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("WriteInventory() error = %v, want execution kind", err)
	}
}
