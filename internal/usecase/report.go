package usecase

import (
	"context"

	"github.com/mdjska/daylight-analysis/internal/ports"
)

// WriteReport renders the model inventory workbook.
type WriteReport struct {
	models ports.ModelLoader
	writer ports.ReportWriter
}

func NewWriteReport(ml ports.ModelLoader, w ports.ReportWriter) *WriteReport {
	return &WriteReport{models: ml, writer: w}
}

func (uc *WriteReport) Execute(ctx context.Context, modelPath, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model, err := uc.models.LoadModel(modelPath)
	if err != nil {
		return err
	}
	return uc.writer.WriteInventory(model, outPath)
}
