package storage

import (
	"strconv"

	"listing-insights/models"
)

// sheet is one report section flattened into a header and plain-value rows.
type sheet struct {
	file   string
	title  string
	header []string
	rows   [][]string
	err    error
}

// reportSheets flattens the report into tables in section order. Numbers keep
// full precision; display rounding is left to the reader.
func reportSheets(r *models.Report) []sheet {
	sellers := sheet{
		file:   "seller_type_averages",
		title:  "Seller Types",
		header: []string{"seller_type", "average_price"},
		err:    r.SellerAveragesErr,
	}
	for _, g := range r.SellerAverages {
		sellers.rows = append(sellers.rows, []string{g.Group, g.Average.String()})
	}

	makes := sheet{
		file:   "make_distribution",
		title:  "Makes",
		header: []string{"make", "percentage"},
		err:    r.MakeDistributionErr,
	}
	for _, g := range r.MakeDistribution {
		makes.rows = append(makes.rows, []string{g.Group, strconv.FormatFloat(g.Percentage, 'f', -1, 64)})
	}

	contacted := sheet{
		file:   "most_contacted_average",
		title:  "Most Contacted",
		header: []string{"cutoff_percentage", "average_price", "listings"},
		err:    r.MostContactedErr,
	}
	if r.MostContactedErr == nil {
		contacted.rows = [][]string{{
			strconv.FormatFloat(r.CutoffPercentage, 'f', -1, 64),
			r.MostContactedAverage.String(),
			strconv.Itoa(r.MostContactedListings),
		}}
	}

	top := sheet{
		file:   "top_listings_per_month",
		title:  "Top Per Month",
		header: []string{"month", "rank", "listing_id", "make", "price", "mileage", "contacts"},
		err:    r.TopPerMonthErr,
	}
	for _, m := range r.TopPerMonth {
		for _, e := range m.Entries {
			top.rows = append(top.rows, []string{
				m.Month.String(),
				strconv.Itoa(e.Rank),
				e.ListingID,
				e.Make,
				e.Price.String(),
				e.Mileage.String(),
				strconv.Itoa(e.ContactCount),
			})
		}
	}

	return []sheet{sellers, makes, contacted, top}
}
