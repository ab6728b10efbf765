// Package xlsxreport renders the building inventory as an XLSX workbook.
//
// The workbook mirrors the sheets produced by the IFC extraction step:
// assumptions, spaces, windows, external doors and wall build-ups, one
// row per element, so the geometry fed into a simulation can be audited
// next to the source model.
package xlsxreport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ports"
)

const (
	sheetAssumptions = "Assumptions"
	sheetSpaces      = "Spaces"
	sheetWindows     = "Windows"
	sheetDoors       = "External Doors"
	sheetWalls       = "Walls"
)

type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

var _ ports.ReportWriter = (*Writer)(nil)

// WriteInventory writes the full workbook to path, creating parent
// directories as needed.
func (w *Writer) WriteInventory(m domain.Model, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return opErr(path, err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return opErr(path, err)
	}

	if err := writeAssumptions(f, header); err != nil {
		return opErr(path, err)
	}
	if err := writeSpaces(f, header, m); err != nil {
		return opErr(path, err)
	}
	if err := writeWindows(f, header, m); err != nil {
		return opErr(path, err)
	}
	if err := writeDoors(f, header, m); err != nil {
		return opErr(path, err)
	}
	if err := writeWalls(f, header, m); err != nil {
		return opErr(path, err)
	}

	// Replace the implicit default sheet with the real ones.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return opErr(path, err)
	}
	idx, err := f.GetSheetIndex(sheetAssumptions)
	if err != nil {
		return opErr(path, err)
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(path); err != nil {
		return opErr(path, err)
	}
	return nil
}

func writeAssumptions(f *excelize.File, header int) error {
	if _, err := f.NewSheet(sheetAssumptions); err != nil {
		return err
	}
	if err := f.SetCellStr(sheetAssumptions, "A1", "Assumptions"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetAssumptions, "A1", "A1", header); err != nil {
		return err
	}
	if err := f.SetCellStr(sheetAssumptions, "A2", "Thermal conductivity"); err != nil {
		return err
	}

	conductivity := [][2]string{
		{"Windows", "1.2 W/m2K"},
		{"Glass Doors", "1.5 W/m2K"},
		{"Non-glass External Doors", "1.4 W/m2K"},
		{"External Walls", "0.09 W/m2K"},
	}
	for i, row := range conductivity {
		cell := fmt.Sprintf("B%d", i+3)
		if err := f.SetSheetRow(sheetAssumptions, cell, &[]any{row[0], row[1]}); err != nil {
			return err
		}
	}

	notes := []string{
		"Spaces with a non-rectangular floor profile are analyzed on their bounding box.",
		"Window sills default to 0.1 m when the model carries no sill height.",
	}
	for i, note := range notes {
		if err := f.SetCellStr(sheetAssumptions, fmt.Sprintf("A%d", i+8), note); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetAssumptions, "A", "E", 15)
}

func writeSpaces(f *excelize.File, header int, m domain.Model) error {
	if _, err := f.NewSheet(sheetSpaces); err != nil {
		return err
	}
	cols := []any{"Space Name", "Space Code", "X Dimension", "Y Dimension", "Height"}
	if err := headerRow(f, sheetSpaces, header, cols); err != nil {
		return err
	}

	for i, s := range m.Spaces {
		row := []any{s.LongName, s.Code, s.Width, s.Depth, s.Height}
		if err := f.SetSheetRow(sheetSpaces, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	note := fmt.Sprintf("A%d", len(m.Spaces)+3)
	if err := f.SetCellStr(sheetSpaces, note, "Dimensions are bounding-box extents in metres."); err != nil {
		return err
	}
	return f.SetColWidth(sheetSpaces, "A", "E", 15)
}

func writeWindows(f *excelize.File, header int, m domain.Model) error {
	if _, err := f.NewSheet(sheetWindows); err != nil {
		return err
	}
	cols := []any{"Space Name", "Space Code", "Window Name", "Window Tag", "Height", "Width", "Sill Height"}
	if err := headerRow(f, sheetWindows, header, cols); err != nil {
		return err
	}

	row := 2
	for _, s := range m.Spaces {
		for _, w := range s.Windows {
			vals := []any{s.LongName, s.Code, w.Name, w.Tag, w.Height, w.Width, w.SillHeight}
			if err := f.SetSheetRow(sheetWindows, fmt.Sprintf("A%d", row), &vals); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheetWindows, "A", "G", 15); err != nil {
		return err
	}
	return f.SetColWidth(sheetWindows, "C", "C", 25)
}

func writeDoors(f *excelize.File, header int, m domain.Model) error {
	if _, err := f.NewSheet(sheetDoors); err != nil {
		return err
	}
	cols := []any{"Space Name", "Space Code", "Door Name", "Door Tag", "Type", "Height", "Width"}
	if err := headerRow(f, sheetDoors, header, cols); err != nil {
		return err
	}

	row := 2
	for _, s := range m.Spaces {
		for _, d := range s.Doors {
			vals := []any{s.LongName, s.Code, d.Name, d.Tag, doorType(d), d.Height, d.Width}
			if err := f.SetSheetRow(sheetDoors, fmt.Sprintf("A%d", row), &vals); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheetDoors, "A", "G", 15); err != nil {
		return err
	}
	return f.SetColWidth(sheetDoors, "C", "C", 45)
}

func doorType(d domain.Door) string {
	if d.Glazed {
		return "Glazed"
	}
	return "Solid"
}

func writeWalls(f *excelize.File, header int, m domain.Model) error {
	if _, err := f.NewSheet(sheetWalls); err != nil {
		return err
	}

	maxLayers := 0
	for _, s := range m.Spaces {
		for _, w := range s.Walls {
			if n := len(w.Layers); n > maxLayers {
				maxLayers = n
			}
		}
	}

	cols := []any{"Space Name", "Space Code", "Wall Name", "Wall Tag", "Is external?", "# Layers"}
	for i := 0; i < maxLayers; i++ {
		cols = append(cols, fmt.Sprintf("Material %d", i+1), "Thickness")
	}
	if err := headerRow(f, sheetWalls, header, cols); err != nil {
		return err
	}

	row := 2
	for _, s := range m.Spaces {
		for _, w := range s.Walls {
			vals := []any{s.LongName, s.Code, w.Name, w.Tag, w.External, len(w.Layers)}
			for _, layer := range w.Layers {
				vals = append(vals, layer.Material, layer.Thickness)
			}
			if err := f.SetSheetRow(sheetWalls, fmt.Sprintf("A%d", row), &vals); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheetWalls, "A", "F", 15); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetWalls, "C", "C", 50); err != nil {
		return err
	}
	if maxLayers == 0 {
		return nil
	}
	start, err := excelize.ColumnNumberToName(7)
	if err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(6 + 2*maxLayers)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheetWalls, start, end, 25)
}

// headerRow writes the bold first row of a sheet.
func headerRow(f *excelize.File, sheet string, style int, cols []any) error {
	if err := f.SetSheetRow(sheet, "A1", &cols); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last+"1", style)
}

func opErr(path string, err error) error {
	return &domain.OpError{
		Op:   "xlsxreport.write",
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}
