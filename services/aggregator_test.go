package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-insights/models"
)

func scenarioRows() [][]string {
	return [][]string{
		{"L1", "Toyota", "10000", "5000", "private"},
		{"L2", "Toyota", "20000", "3000", "dealer"},
		{"L3", "Ford", "15000", "1000", "dealer"},
	}
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func TestGroupKeysFirstAppearanceOrder(t *testing.T) {
	keys, err := GroupKeys(scenarioRows(), models.ColSellerType)
	require.NoError(t, err)
	assert.Equal(t, []string{"private", "dealer"}, keys)

	keys, err = GroupKeys(scenarioRows(), models.ColMake)
	require.NoError(t, err)
	assert.Equal(t, []string{"Toyota", "Ford"}, keys)
}

func TestAverageByGroupScenario(t *testing.T) {
	got, err := AverageByGroup(scenarioRows(), models.ColSellerType, models.ColPrice)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "private", got[0].Group)
	assert.Equal(t, "10000", got[0].Average.String())
	assert.Equal(t, "dealer", got[1].Group)
	assert.Equal(t, "17500", got[1].Average.String())
}

func TestAverageByGroupSingleRow(t *testing.T) {
	rows := [][]string{{"X", "BMW", "12345.6", "1", "private"}}
	got, err := AverageByGroup(rows, models.ColSellerType, models.ColPrice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12346", got[0].Average.String())
}

func TestAverageByGroupRoundsHalfUp(t *testing.T) {
	rows := [][]string{
		{"A", "VW", "100", "1", "dealer"},
		{"B", "VW", "101", "1", "dealer"},
	}
	got, err := AverageByGroup(rows, models.ColSellerType, models.ColPrice)
	require.NoError(t, err)
	assert.Equal(t, "101", got[0].Average.String())
}

func TestAverageByGroupErrors(t *testing.T) {
	_, err := AverageByGroup(nil, models.ColSellerType, models.ColPrice)
	assert.ErrorIs(t, err, ErrInsufficientData)

	rows := [][]string{{"A", "VW", "cheap", "1", "dealer"}}
	_, err = AverageByGroup(rows, models.ColSellerType, models.ColPrice)
	require.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, models.ColPrice, pe.Column)
	assert.Equal(t, "cheap", pe.Value)

	short := [][]string{{"A", "VW"}}
	_, err = AverageByGroup(short, models.ColSellerType, models.ColPrice)
	assert.ErrorIs(t, err, ErrParse)
}

func TestPercentageDistributionScenario(t *testing.T) {
	got, err := PercentageDistribution(scenarioRows(), models.ColMake)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Toyota", got[0].Group)
	assert.InDelta(t, 66.67, got[0].Percentage, 0.01)
	assert.Equal(t, "Ford", got[1].Group)
	assert.InDelta(t, 33.33, got[1].Percentage, 0.01)
}

func TestPercentageDistributionSumsToHundred(t *testing.T) {
	rows := [][]string{
		{"1", "Audi", "1", "1", "p"},
		{"2", "BMW", "1", "1", "p"},
		{"3", "Audi", "1", "1", "p"},
		{"4", "Fiat", "1", "1", "p"},
		{"5", "Kia", "1", "1", "p"},
		{"6", "BMW", "1", "1", "p"},
		{"7", "Audi", "1", "1", "p"},
	}
	got, err := PercentageDistribution(rows, models.ColMake)
	require.NoError(t, err)

	sum := 0.0
	for _, g := range got {
		sum += g.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Percentage, got[i].Percentage)
	}
}

func TestPercentageDistributionTiesKeepInputOrder(t *testing.T) {
	rows := [][]string{
		{"1", "Kia", "1", "1", "p"},
		{"2", "Audi", "1", "1", "p"},
		{"3", "Fiat", "1", "1", "p"},
	}
	got, err := PercentageDistribution(rows, models.ColMake)
	require.NoError(t, err)

	groups := []string{got[0].Group, got[1].Group, got[2].Group}
	assert.Equal(t, []string{"Kia", "Audi", "Fiat"}, groups)
}

func TestPercentageDistributionEmpty(t *testing.T) {
	_, err := PercentageDistribution([][]string{}, models.ColMake)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAggregatesDoNotMutateInput(t *testing.T) {
	rows := scenarioRows()
	before := copyRows(rows)

	first, err := SellerTypeAverages(rows)
	require.NoError(t, err)
	second, err := SellerTypeAverages(rows)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Group, second[i].Group)
		assert.True(t, first[i].Average.Equal(second[i].Average))
	}

	d1, err := MakeDistribution(rows)
	require.NoError(t, err)
	d2, err := MakeDistribution(rows)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	assert.Equal(t, before, rows)
}
