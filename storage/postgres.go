package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"listing-insights/models"
	"listing-insights/utils"
)

const importBatchSize = 50

// PostgresStore keeps the two input datasets in PostgreSQL. It can be filled
// from the CSV files with the import command and then serve as a DatasetSource.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection, retries the initial ping and runs
// schema migrations.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, logger: retry.Logger}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id          TEXT           PRIMARY KEY,
			make        TEXT           NOT NULL,
			price       NUMERIC(14,2)  NOT NULL,
			mileage     NUMERIC(14,2)  NOT NULL,
			seller_type TEXT           NOT NULL,
			position    INTEGER        NOT NULL
		);

		CREATE TABLE IF NOT EXISTS contacts (
			id           SERIAL  PRIMARY KEY,
			listing_id   TEXT    NOT NULL,
			contacted_at BIGINT  NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_contacts_listing ON contacts(listing_id);
	`)
	return err
}

// Clear deletes all stored listings and contacts.
func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, "TRUNCATE listings, contacts RESTART IDENTITY"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Import replaces the stored datasets with the given records.
func (ps *PostgresStore) Import(ctx context.Context, listings []models.Listing, contacts []models.Contact) error {
	if err := ps.Clear(ctx); err != nil {
		return err
	}
	if err := ps.ImportListings(ctx, listings); err != nil {
		return err
	}
	return ps.ImportContacts(ctx, contacts)
}

// ImportListings batch-inserts listings. Input order is kept in the position column.
func (ps *PostgresStore) ImportListings(ctx context.Context, listings []models.Listing) error {
	for i := 0; i < len(listings); i += importBatchSize {
		end := min(i+importBatchSize, len(listings))

		args := make([]any, 0, (end-i)*6)
		for pos, l := range listings[i:end] {
			args = append(args, l.ID, l.Make, l.Price.String(), l.Mileage.String(), l.SellerType, i+pos)
		}
		query := insertStatement("listings",
			[]string{"id", "make", "price", "mileage", "seller_type", "position"}, end-i) +
			" ON CONFLICT (id) DO NOTHING"
		if _, err := ps.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert listings: %w", err)
		}
	}
	ps.logf("[postgres] Imported %d listings", len(listings))
	return nil
}

// ImportContacts batch-inserts contacts.
func (ps *PostgresStore) ImportContacts(ctx context.Context, contacts []models.Contact) error {
	for i := 0; i < len(contacts); i += importBatchSize {
		end := min(i+importBatchSize, len(contacts))

		args := make([]any, 0, (end-i)*2)
		for _, c := range contacts[i:end] {
			args = append(args, c.ListingID, c.TimestampMillis)
		}
		query := insertStatement("contacts", []string{"listing_id", "contacted_at"}, end-i)
		if _, err := ps.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert contacts: %w", err)
		}
	}
	ps.logf("[postgres] Imported %d contacts", len(contacts))
	return nil
}

// Load returns the stored datasets as raw string rows, in the same column
// layout as the CSV files.
func (ps *PostgresStore) Load(ctx context.Context) (*models.Dataset, error) {
	listings, err := ps.fetchRows(ctx, `
		SELECT id, make, price::text, mileage::text, seller_type
		FROM listings
		ORDER BY position
	`, models.ListingColumns)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch listings: %w", err)
	}

	contacts, err := ps.fetchRows(ctx, `
		SELECT listing_id, contacted_at::text
		FROM contacts
		ORDER BY id
	`, models.ContactColumns)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch contacts: %w", err)
	}

	ps.logf("[postgres] Loaded %d listings and %d contacts", len(listings), len(contacts))
	return &models.Dataset{
		ListingHeader: []string{"id", "make", "price", "mileage", "seller_type"},
		Listings:      listings,
		ContactHeader: []string{"listing_id", "contact_date"},
		Contacts:      contacts,
	}, nil
}

func (ps *PostgresStore) fetchRows(ctx context.Context, query string, columns int) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := ps.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := [][]string{}
	for rows.Next() {
		record := make([]string, columns)
		dest := make([]any, columns)
		for i := range record {
			dest[i] = &record[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func (ps *PostgresStore) logf(format string, args ...any) {
	if ps.logger != nil {
		ps.logger.Info(format, args...)
	}
}

// insertStatement builds a multi-row INSERT with numbered placeholders.
func insertStatement(table string, columns []string, rows int) string {
	valueStrings := make([]string, 0, rows)
	n := 1
	for r := 0; r < rows; r++ {
		ph := make([]string, len(columns))
		for c := range columns {
			ph[c] = fmt.Sprintf("$%d", n)
			n++
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(valueStrings, ","))
}
