package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Column positions in the listings file.
const (
	ColID = iota
	ColMake
	ColPrice
	ColMileage
	ColSellerType

	ListingColumns
)

// Column positions in the contacts file.
const (
	ColContactListingID = iota
	ColContactTimestamp

	ContactColumns
)

// Listing is a parsed row of the listings file. Never mutated after parsing.
type Listing struct {
	ID         string
	Make       string
	Price      decimal.Decimal
	Mileage    decimal.Decimal
	SellerType string
}

// Contact records a buyer inquiry about a listing.
type Contact struct {
	ListingID       string
	TimestampMillis int64
}

// Time returns the contact moment in the given zone.
func (c Contact) Time(loc *time.Location) time.Time {
	return time.UnixMilli(c.TimestampMillis).In(loc)
}

// Dataset holds both input files as raw string rows, headers split off.
type Dataset struct {
	ListingHeader []string
	Listings      [][]string
	ContactHeader []string
	Contacts      [][]string
}

// MonthKey identifies one calendar month. Ordering is chronological.
type MonthKey struct {
	Year  int
	Month time.Month
}

// String renders the key the way the console report labels months, e.g. "03.2024".
func (m MonthKey) String() string {
	return fmt.Sprintf("%02d.%d", int(m.Month), m.Year)
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or after o.
func (m MonthKey) Compare(o MonthKey) int {
	switch {
	case m.Year < o.Year:
		return -1
	case m.Year > o.Year:
		return 1
	case m.Month < o.Month:
		return -1
	case m.Month > o.Month:
		return 1
	}
	return 0
}

// Before reports whether m is chronologically earlier than o.
func (m MonthKey) Before(o MonthKey) bool {
	return m.Compare(o) < 0
}
