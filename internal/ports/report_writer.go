package ports

import "github.com/mdjska/daylight-analysis/internal/domain"

// ReportWriter renders the model inventory report.
type ReportWriter interface {
	WriteInventory(model domain.Model, path string) error
}
