package models

import "github.com/shopspring/decimal"

// GroupAverage is the rounded average of a value column for one group.
type GroupAverage struct {
	Group   string
	Average decimal.Decimal
}

// GroupShare is the unrounded percentage of rows belonging to one group.
type GroupShare struct {
	Group      string
	Percentage float64
}

// RankedListing is one row of a top-N contact ranking.
type RankedListing struct {
	Rank         int
	ListingID    string
	Make         string
	Price        decimal.Decimal
	Mileage      decimal.Decimal
	ContactCount int
}

// MonthlyRanking is the top-N ranking for a single month.
type MonthlyRanking struct {
	Month   MonthKey
	Entries []RankedListing
}

// Report holds the four computed sections. Each section carries its own error
// so a failure in one does not hide the others.
type Report struct {
	RunID string

	SellerAverages    []GroupAverage
	SellerAveragesErr error

	MakeDistribution    []GroupShare
	MakeDistributionErr error

	CutoffPercentage      float64
	MostContactedAverage  decimal.Decimal
	MostContactedListings int
	MostContactedErr      error

	TopN           int
	TopPerMonth    []MonthlyRanking
	TopPerMonthErr error
}

// Failed reports whether every section failed.
func (r *Report) Failed() bool {
	return r.SellerAveragesErr != nil &&
		r.MakeDistributionErr != nil &&
		r.MostContactedErr != nil &&
		r.TopPerMonthErr != nil
}
