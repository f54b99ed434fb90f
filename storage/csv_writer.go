package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"listing-insights/models"
	"listing-insights/utils"
)

// CSVExporter writes each report section to its own CSV file inside a directory.
type CSVExporter struct {
	dir    string
	logger *utils.Logger
}

// NewCSVExporter creates an exporter writing into dir. The directory is
// created on export.
func NewCSVExporter(dir string, logger *utils.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: logger}
}

// Export writes one file per section that computed successfully.
func (c *CSVExporter) Export(_ context.Context, report *models.Report) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	for _, sheet := range reportSheets(report) {
		if sheet.err != nil {
			c.logger.Warn("[csv] Skipping %s: %v", sheet.file, sheet.err)
			continue
		}
		path := filepath.Join(c.dir, sheet.file+".csv")
		if err := writeCSVFile(path, sheet.header, sheet.rows); err != nil {
			return err
		}
		c.logger.Info("[csv] Wrote %s (%d rows)", path, len(sheet.rows))
	}
	return nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return f.Close()
}
