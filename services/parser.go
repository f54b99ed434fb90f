package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"listing-insights/models"
)

var errMissingColumn = errors.New("missing column")

// ParseListings turns raw listing rows into records. The first unparseable
// price or mileage, or a row with too few columns, aborts with a *ParseError;
// values are never coerced to zero.
func ParseListings(rows [][]string) ([]models.Listing, error) {
	out := make([]models.Listing, 0, len(rows))
	for i, row := range rows {
		if len(row) < models.ListingColumns {
			return nil, &ParseError{Dataset: "listings", Row: i + 1, Column: len(row), Err: errMissingColumn}
		}
		price, err := parseAmount("listings", i, models.ColPrice, row)
		if err != nil {
			return nil, err
		}
		mileage, err := parseAmount("listings", i, models.ColMileage, row)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Listing{
			ID:         row[models.ColID],
			Make:       row[models.ColMake],
			Price:      price,
			Mileage:    mileage,
			SellerType: row[models.ColSellerType],
		})
	}
	return out, nil
}

// ParseContacts turns raw contact rows into records.
func ParseContacts(rows [][]string) ([]models.Contact, error) {
	out := make([]models.Contact, 0, len(rows))
	for i, row := range rows {
		if len(row) < models.ContactColumns {
			return nil, &ParseError{Dataset: "contacts", Row: i + 1, Column: len(row), Err: errMissingColumn}
		}
		raw := strings.TrimSpace(row[models.ColContactTimestamp])
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &ParseError{Dataset: "contacts", Row: i + 1, Column: models.ColContactTimestamp, Value: raw, Err: err}
		}
		out = append(out, models.Contact{
			ListingID:       row[models.ColContactListingID],
			TimestampMillis: ms,
		})
	}
	return out, nil
}

// parseAmount reads a non-negative decimal from row[col]. rowIdx is 0-based.
func parseAmount(dataset string, rowIdx, col int, row []string) (decimal.Decimal, error) {
	if col >= len(row) {
		return decimal.Zero, &ParseError{Dataset: dataset, Row: rowIdx + 1, Column: col, Err: errMissingColumn}
	}
	raw := strings.TrimSpace(row[col])
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &ParseError{Dataset: dataset, Row: rowIdx + 1, Column: col, Value: raw, Err: err}
	}
	if d.IsNegative() {
		return decimal.Zero, &ParseError{Dataset: dataset, Row: rowIdx + 1, Column: col, Value: raw, Err: errors.New("negative value")}
	}
	return d, nil
}
