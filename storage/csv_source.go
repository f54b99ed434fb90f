package storage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"listing-insights/models"
	"listing-insights/utils"
)

// CSVSource loads the listings and contacts files from disk.
type CSVSource struct {
	ListingsPath string
	ContactsPath string
	Logger       *utils.Logger
}

// NewCSVSource creates a CSVSource for the two files.
func NewCSVSource(listingsPath, contactsPath string, logger *utils.Logger) *CSVSource {
	return &CSVSource{ListingsPath: listingsPath, ContactsPath: contactsPath, Logger: logger}
}

// Load reads both files concurrently. The first failure cancels the run.
func (s *CSVSource) Load(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		header, rows, err := LoadCSV(s.ListingsPath)
		if err != nil {
			return err
		}
		ds.ListingHeader, ds.Listings = header, rows
		return nil
	})
	g.Go(func() error {
		header, rows, err := LoadCSV(s.ContactsPath)
		if err != nil {
			return err
		}
		ds.ContactHeader, ds.Contacts = header, rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("[csv] Loaded %d listings from %s", len(ds.Listings), s.ListingsPath)
		s.Logger.Info("[csv] Loaded %d contacts from %s", len(ds.Contacts), s.ContactsPath)
		s.Logger.Debug("[csv] Listing header: %v | contact header: %v", ds.ListingHeader, ds.ContactHeader)
	}
	return ds, nil
}
