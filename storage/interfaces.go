package storage

import (
	"context"

	"listing-insights/models"
)

// DatasetSource is the interface any input backend must satisfy.
type DatasetSource interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// Exporter writes a computed report to some output format.
type Exporter interface {
	Export(ctx context.Context, report *models.Report) error
}
