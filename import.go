package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"listing-insights/services"
	"listing-insights/storage"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Copy the CSV datasets into PostgreSQL for later --source postgres runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ds, err := storage.NewCSVSource(a.cfg.ListingsPath(), a.cfg.ContactsPath(), a.logger).Load(ctx)
			if err != nil {
				return fmt.Errorf("load dataset: %w", err)
			}

			listings, err := services.ParseListings(ds.Listings)
			if err != nil {
				return fmt.Errorf("import listings: %w", err)
			}
			contacts, err := services.ParseContacts(ds.Contacts)
			if err != nil {
				return fmt.Errorf("import contacts: %w", err)
			}

			store, err := a.openPostgres(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Import(ctx, listings, contacts); err != nil {
				return err
			}
			a.logger.Info("[import] Imported %d listings and %d contacts into PostgreSQL", len(listings), len(contacts))
			return nil
		},
	}
}
