package storage

import (
	"fmt"
	"path/filepath"

	"listing-insights/utils"
)

// NewExporter returns the exporter for format. "text" has no file output and
// yields nil. outPath is a directory; file-based formats write report.<ext> in it.
func NewExporter(format, outPath, chromeBin string, logger *utils.Logger) (Exporter, error) {
	switch format {
	case "", "text":
		return nil, nil
	case "csv":
		return NewCSVExporter(outPath, logger), nil
	case "xlsx":
		return NewXLSXExporter(filepath.Join(outPath, "report.xlsx"), logger), nil
	case "pdf":
		return NewPDFExporter(filepath.Join(outPath, "report.pdf"), chromeBin, logger), nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}
