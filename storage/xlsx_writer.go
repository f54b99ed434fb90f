package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"listing-insights/models"
	"listing-insights/utils"
)

// XLSXExporter writes the report as a workbook with one sheet per section.
type XLSXExporter struct {
	path   string
	logger *utils.Logger
}

func NewXLSXExporter(path string, logger *utils.Logger) *XLSXExporter {
	return &XLSXExporter{path: path, logger: logger}
}

// Export builds the workbook and saves it. Failed sections get a sheet with
// the error message instead of data.
func (x *XLSXExporter) Export(_ context.Context, report *models.Report) error {
	f, err := buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	x.logger.Info("[xlsx] Wrote %s", x.path)
	return nil
}

func buildWorkbook(report *models.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, s := range reportSheets(report) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.title); err != nil {
				return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.title); err != nil {
			return nil, fmt.Errorf("xlsx: new sheet %q: %w", s.title, err)
		}

		if s.err != nil {
			if err := f.SetCellValue(s.title, "A1", "unavailable: "+s.err.Error()); err != nil {
				return nil, fmt.Errorf("xlsx: write %q: %w", s.title, err)
			}
			continue
		}

		if err := setRow(f, s.title, 1, s.header); err != nil {
			return nil, err
		}
		for r, row := range s.rows {
			if err := setRow(f, s.title, r+2, row); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func setRow(f *excelize.File, sheetName string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("xlsx: write %q row %d: %w", sheetName, rowNum, err)
	}
	return nil
}
