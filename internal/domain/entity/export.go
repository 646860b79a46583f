package entity

import "time"

// Export format constants
const (
	ExportFormatText     = "txt"
	ExportFormatShiftJIS = "sjis"
	ExportFormatPDF      = "pdf"
	ExportFormatXLSX     = "xlsx"
)

// IsValidExportFormat reports whether format is supported
func IsValidExportFormat(format string) bool {
	switch format {
	case ExportFormatText, ExportFormatShiftJIS, ExportFormatPDF, ExportFormatXLSX:
		return true
	}
	return false
}

// ExportRecord indexes a generated regulation file
type ExportRecord struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	RegulationID int64     `json:"regulation_id"`
	Revision     int       `json:"revision"`
	Format       string    `json:"format"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
