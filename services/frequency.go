package services

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"listing-insights/models"
)

// ContactIndex counts contacts per listing. All month keys are derived in a
// single, explicitly configured time zone.
type ContactIndex struct {
	loc *time.Location
}

// NewContactIndex creates an index that buckets contacts by month in loc.
// A nil loc means UTC.
func NewContactIndex(loc *time.Location) *ContactIndex {
	if loc == nil {
		loc = time.UTC
	}
	return &ContactIndex{loc: loc}
}

// Location is the zone month keys are derived in.
func (ci *ContactIndex) Location() *time.Location {
	return ci.loc
}

// MonthKeyOf returns the calendar month of an epoch-millisecond timestamp.
func (ci *ContactIndex) MonthKeyOf(timestampMillis int64) models.MonthKey {
	t := time.UnixMilli(timestampMillis).In(ci.loc)
	return models.MonthKey{Year: t.Year(), Month: t.Month()}
}

// BuildFrequencies counts the contacts of every listing. Listings without
// contacts appear with a count of zero; contacts for unknown listings are only
// tallied as unmatched.
func (ci *ContactIndex) BuildFrequencies(listings []models.Listing, contacts []models.Contact) *models.FrequencyTable {
	return buildTable(listings, contacts)
}

// BuildFrequenciesForMonth is BuildFrequencies restricted to contacts in month.
func (ci *ContactIndex) BuildFrequenciesForMonth(listings []models.Listing, contacts []models.Contact, month models.MonthKey) *models.FrequencyTable {
	inMonth := lo.Filter(contacts, func(c models.Contact, _ int) bool {
		return ci.MonthKeyOf(c.TimestampMillis) == month
	})
	return buildTable(listings, inMonth)
}

// DistinctMonths lists every month with at least one contact, oldest first.
func (ci *ContactIndex) DistinctMonths(contacts []models.Contact) []models.MonthKey {
	months := lo.Uniq(lo.Map(contacts, func(c models.Contact, _ int) models.MonthKey {
		return ci.MonthKeyOf(c.TimestampMillis)
	}))
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months
}

func buildTable(listings []models.Listing, contacts []models.Contact) *models.FrequencyTable {
	ids := lo.Map(listings, func(l models.Listing, _ int) string { return l.ID })
	known := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })

	counts := lo.CountValuesBy(contacts, func(c models.Contact) string { return c.ListingID })
	unmatched := lo.SumBy(lo.Entries(counts), func(e lo.Entry[string, int]) int {
		if _, ok := known[e.Key]; ok {
			return 0
		}
		return e.Value
	})

	return models.NewFrequencyTable(ids, counts, unmatched)
}
