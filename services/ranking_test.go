package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-insights/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func cutoffListings(t *testing.T) []models.Listing {
	t.Helper()
	listings, err := ParseListings([][]string{
		{"A", "Audi", "100", "10", "dealer"},
		{"B", "BMW", "200", "20", "dealer"},
		{"C", "Fiat", "300", "30", "private"},
		{"D", "Kia", "400", "40", "private"},
	})
	require.NoError(t, err)
	return listings
}

func contactsFor(counts map[string]int, ts int64) []models.Contact {
	var out []models.Contact
	for _, id := range []string{"A", "B", "C", "D", "L1", "L2", "L3"} {
		for i := 0; i < counts[id]; i++ {
			out = append(out, models.Contact{ListingID: id, TimestampMillis: ts})
		}
	}
	return out
}

func TestMostContactedByCutoffPercentage(t *testing.T) {
	listings := cutoffListings(t)
	index := NewContactIndex(time.UTC)
	b := NewRankingBuilder(index)
	freq := index.BuildFrequencies(listings,
		contactsFor(map[string]int{"A": 5, "B": 3, "C": 2}, ms(2024, time.May, 1, 0)))

	tests := []struct {
		pct       float64
		wantAvg   string
		wantCount int
		wantThres int
	}{
		{30, "100", 1, 3},
		{50, "100", 1, 5},
		{60, "150", 2, 6},
		{90, "200", 3, 9},
		{100, "200", 3, 10},
	}

	for _, tt := range tests {
		res, err := b.MostContactedByCutoffPercentage(listings, freq, tt.pct)
		require.NoError(t, err, tt.pct)
		assert.Equal(t, tt.wantAvg, res.AveragePrice.String(), "pct %v", tt.pct)
		assert.Equal(t, tt.wantCount, res.Listings, "pct %v", tt.pct)
		assert.Equal(t, tt.wantThres, res.Threshold, "pct %v", tt.pct)
	}
}

func TestMostContactedFullCutoffEqualsPlainAverage(t *testing.T) {
	listings := cutoffListings(t)
	index := NewContactIndex(time.UTC)
	freq := index.BuildFrequencies(listings,
		contactsFor(map[string]int{"A": 5, "B": 3, "C": 2, "D": 1}, ms(2024, time.May, 1, 0)))

	res, err := NewRankingBuilder(index).MostContactedByCutoffPercentage(listings, freq, 100)
	require.NoError(t, err)
	assert.Equal(t, "250", res.AveragePrice.String())
	assert.Equal(t, 4, res.Listings)
}

func TestMostContactedNoContacts(t *testing.T) {
	listings := cutoffListings(t)
	index := NewContactIndex(time.UTC)
	b := NewRankingBuilder(index)

	_, err := b.MostContactedByCutoffPercentage(listings, index.BuildFrequencies(listings, nil), 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = b.MostContactedByCutoffPercentage(nil, index.BuildFrequencies(nil, nil), 30)
	assert.ErrorIs(t, err, ErrInsufficientData)

	onlyUnknown := contactsFor(map[string]int{"L1": 2}, ms(2024, time.May, 1, 0))
	_, err = b.MostContactedByCutoffPercentage(listings, index.BuildFrequencies(listings, onlyUnknown), 30)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMostContactedRejectsBadPercentage(t *testing.T) {
	listings := cutoffListings(t)
	index := NewContactIndex(time.UTC)
	freq := index.BuildFrequencies(listings, contactsFor(map[string]int{"A": 1}, 0))

	for _, pct := range []float64{0, -10, 100.5} {
		_, err := NewRankingBuilder(index).MostContactedByCutoffPercentage(listings, freq, pct)
		assert.ErrorIs(t, err, ErrInvalidArgument, "pct %v", pct)
	}
}

func TestTopNByMonthScenario(t *testing.T) {
	listings := scenarioListings(t)
	t1 := ms(2024, time.March, 1, 9)
	t2 := ms(2024, time.March, 15, 9)
	contacts := []models.Contact{
		{ListingID: "L1", TimestampMillis: t1},
		{ListingID: "L1", TimestampMillis: t2},
		{ListingID: "L2", TimestampMillis: t1},
	}

	b := NewRankingBuilder(NewContactIndex(time.UTC))
	got, err := b.TopNByMonth(listings, contacts, models.MonthKey{Year: 2024, Month: time.March}, 5)
	require.NoError(t, err)

	want := []models.RankedListing{
		{Rank: 1, ListingID: "L1", Make: "Toyota", Price: decimal.NewFromInt(10000), Mileage: decimal.NewFromInt(5000), ContactCount: 2},
		{Rank: 2, ListingID: "L2", Make: "Toyota", Price: decimal.NewFromInt(20000), Mileage: decimal.NewFromInt(3000), ContactCount: 1},
		{Rank: 3, ListingID: "L3", Make: "Ford", Price: decimal.NewFromInt(15000), Mileage: decimal.NewFromInt(1000), ContactCount: 0},
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("TopNByMonth mismatch (-want +got):\n%s", diff)
	}
}

func TestTopNByMonthBoundedByN(t *testing.T) {
	listings := scenarioListings(t)
	contacts := contactsFor(map[string]int{"L1": 1, "L2": 3, "L3": 2}, ms(2024, time.June, 1, 0))
	b := NewRankingBuilder(NewContactIndex(time.UTC))
	june := models.MonthKey{Year: 2024, Month: time.June}

	got, err := b.TopNByMonth(listings, contacts, june, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "L2", got[0].ListingID)
	assert.Equal(t, "L3", got[1].ListingID)

	got, err = b.TopNByMonth(listings, contacts, june, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = b.TopNByMonth(listings, contacts, june, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTopNByMonthOnlyCountsThatMonth(t *testing.T) {
	listings := scenarioListings(t)
	contacts := []models.Contact{
		{ListingID: "L3", TimestampMillis: ms(2024, time.February, 1, 0)},
		{ListingID: "L3", TimestampMillis: ms(2024, time.February, 2, 0)},
		{ListingID: "L2", TimestampMillis: ms(2024, time.March, 2, 0)},
		{ListingID: "ZZ", TimestampMillis: ms(2024, time.March, 2, 0)},
	}
	b := NewRankingBuilder(NewContactIndex(time.UTC))

	got, err := b.TopNByMonth(listings, contacts, models.MonthKey{Year: 2024, Month: time.March}, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "L2", got[0].ListingID)
	assert.Equal(t, 1, got[0].ContactCount)
	for _, e := range got {
		assert.NotEqual(t, "ZZ", e.ListingID)
		if e.ListingID != "L2" {
			assert.Zero(t, e.ContactCount)
		}
	}
}

func TestTopNPerMonth(t *testing.T) {
	listings := scenarioListings(t)
	contacts := []models.Contact{
		{ListingID: "L2", TimestampMillis: ms(2024, time.January, 3, 0)},
		{ListingID: "L1", TimestampMillis: ms(2023, time.December, 3, 0)},
		{ListingID: "L1", TimestampMillis: ms(2023, time.December, 4, 0)},
		{ListingID: "L3", TimestampMillis: ms(2023, time.February, 4, 0)},
	}
	b := NewRankingBuilder(NewContactIndex(time.UTC))

	got, err := b.TopNPerMonth(listings, contacts, 1)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "02.2023", got[0].Month.String())
	assert.Equal(t, "12.2023", got[1].Month.String())
	assert.Equal(t, "01.2024", got[2].Month.String())

	assert.Equal(t, "L3", got[0].Entries[0].ListingID)
	assert.Equal(t, "L1", got[1].Entries[0].ListingID)
	assert.Equal(t, 2, got[1].Entries[0].ContactCount)
	assert.Equal(t, "L2", got[2].Entries[0].ListingID)
	for _, m := range got {
		assert.Len(t, m.Entries, 1)
	}
}

func TestRankingIsIdempotent(t *testing.T) {
	listings := scenarioListings(t)
	contacts := contactsFor(map[string]int{"L1": 2, "L2": 2, "L3": 1}, ms(2024, time.July, 1, 0))
	b := NewRankingBuilder(NewContactIndex(time.UTC))

	first, err := b.TopNPerMonth(listings, contacts, 5)
	require.NoError(t, err)
	second, err := b.TopNPerMonth(listings, contacts, 5)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, "L1", first[0].Entries[0].ListingID, "ties keep input order")
	assert.Equal(t, "L2", first[0].Entries[1].ListingID, "ties keep input order")
}
