package services

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"listing-insights/models"
)

// RankingBuilder joins contact frequencies with listing attributes.
type RankingBuilder struct {
	index *ContactIndex
}

// NewRankingBuilder creates a RankingBuilder that buckets months with index.
func NewRankingBuilder(index *ContactIndex) *RankingBuilder {
	return &RankingBuilder{index: index}
}

// CutoffResult is the outcome of a cutoff percentage selection.
type CutoffResult struct {
	AveragePrice decimal.Decimal
	Listings     int
	Threshold    int
}

// MostContactedByCutoffPercentage walks listings from most to least contacted,
// summing their contact counts until the sum reaches
// ceil(total * percentage / 100), and averages the price of exactly the
// listings consumed, the one that crosses the threshold included. The average
// is rounded half-up to whole units. Listings without contacts are never
// needed to reach the threshold and so are never part of the average.
func (b *RankingBuilder) MostContactedByCutoffPercentage(listings []models.Listing, freq *models.FrequencyTable, percentage float64) (CutoffResult, error) {
	if percentage <= 0 || percentage > 100 {
		return CutoffResult{}, fmt.Errorf("cutoff percentage %v: %w", percentage, ErrInvalidArgument)
	}
	total := freq.Total()
	if freq.Len() == 0 || total == 0 {
		return CutoffResult{}, ErrInsufficientData
	}

	threshold := decimal.NewFromInt(int64(total)).
		Mul(decimal.NewFromFloat(percentage)).
		Div(decimal.NewFromInt(100)).
		Ceil().
		IntPart()

	byID := indexListings(listings)

	var (
		running  int64
		consumed int64
		sum      = decimal.Zero
	)
	for _, entry := range freq.Sorted() {
		l, ok := byID[entry.ListingID]
		if !ok {
			continue
		}
		sum = sum.Add(l.Price)
		consumed++
		running += int64(entry.Count)
		if running >= threshold {
			break
		}
	}
	if consumed == 0 {
		return CutoffResult{}, ErrInsufficientData
	}

	return CutoffResult{
		AveragePrice: sum.Div(decimal.NewFromInt(consumed)).Round(0),
		Listings:     int(consumed),
		Threshold:    int(threshold),
	}, nil
}

// TopNByMonth ranks listings by their contact count within month and returns
// at most n of them with ranks 1..k. When fewer than n listings were contacted
// that month, the ranking is filled up with uncontacted listings in input
// order. Contacts for unknown listings never appear.
func (b *RankingBuilder) TopNByMonth(listings []models.Listing, contacts []models.Contact, month models.MonthKey, n int) ([]models.RankedListing, error) {
	if n < 0 {
		return nil, fmt.Errorf("ranking size %d: %w", n, ErrInvalidArgument)
	}
	freq := b.index.BuildFrequenciesForMonth(listings, contacts, month)
	byID := indexListings(listings)

	ranked := make([]models.RankedListing, 0, min(n, freq.Len()))
	for _, entry := range freq.Sorted() {
		if len(ranked) >= n {
			break
		}
		l, ok := byID[entry.ListingID]
		if !ok {
			continue
		}
		ranked = append(ranked, models.RankedListing{
			Rank:         len(ranked) + 1,
			ListingID:    l.ID,
			Make:         l.Make,
			Price:        l.Price,
			Mileage:      l.Mileage,
			ContactCount: entry.Count,
		})
	}
	return ranked, nil
}

// TopNPerMonth builds one TopNByMonth ranking for every month that has
// contacts, oldest month first.
func (b *RankingBuilder) TopNPerMonth(listings []models.Listing, contacts []models.Contact, n int) ([]models.MonthlyRanking, error) {
	months := b.index.DistinctMonths(contacts)
	out := make([]models.MonthlyRanking, 0, len(months))
	for _, m := range months {
		entries, err := b.TopNByMonth(listings, contacts, m, n)
		if err != nil {
			return nil, err
		}
		out = append(out, models.MonthlyRanking{Month: m, Entries: entries})
	}
	return out, nil
}

// indexListings maps ids to listings. The first listing wins on duplicate ids.
func indexListings(listings []models.Listing) map[string]models.Listing {
	byID := make(map[string]models.Listing, len(listings))
	lo.ForEach(listings, func(l models.Listing, _ int) {
		if _, dup := byID[l.ID]; !dup {
			byID[l.ID] = l
		}
	})
	return byID
}
