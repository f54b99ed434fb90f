package services

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"listing-insights/models"
)

type keyedValue struct {
	key   string
	value decimal.Decimal
}

// GroupKeys returns the distinct values of one column in order of first appearance.
func GroupKeys(rows [][]string, field int) ([]string, error) {
	keys := make([]string, 0, len(rows))
	for i, row := range rows {
		if field >= len(row) {
			return nil, &ParseError{Dataset: "listings", Row: i + 1, Column: field, Err: errMissingColumn}
		}
		keys = append(keys, row[field])
	}
	return lo.Uniq(keys), nil
}

// AverageByGroup groups rows by the groupField column and averages the numeric
// valueField column per group. Averages are rounded half-up to whole units.
// Groups come back in order of first appearance.
func AverageByGroup(rows [][]string, groupField, valueField int) ([]models.GroupAverage, error) {
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	keys, err := GroupKeys(rows, groupField)
	if err != nil {
		return nil, err
	}

	pairs := make([]keyedValue, 0, len(rows))
	for i, row := range rows {
		v, err := parseAmount("listings", i, valueField, row)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, keyedValue{key: row[groupField], value: v})
	}

	groups := lo.GroupBy(pairs, func(p keyedValue) string { return p.key })

	out := make([]models.GroupAverage, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		if len(members) == 0 {
			return nil, ErrInsufficientData
		}
		sum := lo.Reduce(members, func(acc decimal.Decimal, p keyedValue, _ int) decimal.Decimal {
			return acc.Add(p.value)
		}, decimal.Zero)
		out = append(out, models.GroupAverage{
			Group:   key,
			Average: sum.Div(decimal.NewFromInt(int64(len(members)))).Round(0),
		})
	}
	return out, nil
}

// PercentageDistribution returns, per distinct value of field, the share of
// rows holding it as an unrounded percentage. The result is sorted by share
// descending; equal shares keep their order of first appearance.
func PercentageDistribution(rows [][]string, field int) ([]models.GroupShare, error) {
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}

	keys, err := GroupKeys(rows, field)
	if err != nil {
		return nil, err
	}
	counts := lo.CountValuesBy(rows, func(row []string) string { return row[field] })
	total := float64(len(rows))

	out := lo.Map(keys, func(key string, _ int) models.GroupShare {
		return models.GroupShare{Group: key, Percentage: 100 * float64(counts[key]) / total}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percentage > out[j].Percentage
	})
	return out, nil
}

// SellerTypeAverages averages the listing price per seller type.
func SellerTypeAverages(rows [][]string) ([]models.GroupAverage, error) {
	return AverageByGroup(rows, models.ColSellerType, models.ColPrice)
}

// MakeDistribution is the percentage of listings per make.
func MakeDistribution(rows [][]string) ([]models.GroupShare, error) {
	return PercentageDistribution(rows, models.ColMake)
}

// groupLabel substitutes a placeholder for an empty category so rendered
// tables never show a blank key.
func groupLabel(key string) string {
	if strings.TrimSpace(key) == "" {
		return "(none)"
	}
	return key
}
