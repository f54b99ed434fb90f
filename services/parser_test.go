package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-insights/models"
)

func TestParseListings(t *testing.T) {
	got, err := ParseListings(scenarioRows())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "L2", got[1].ID)
	assert.Equal(t, "Toyota", got[1].Make)
	assert.Equal(t, "20000", got[1].Price.String())
	assert.Equal(t, "3000", got[1].Mileage.String())
	assert.Equal(t, "dealer", got[1].SellerType)
}

func TestParseListingsRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		col  int
	}{
		{"price text", []string{"1", "VW", "n/a", "10", "dealer"}, models.ColPrice},
		{"mileage empty", []string{"1", "VW", "10", "", "dealer"}, models.ColMileage},
		{"negative price", []string{"1", "VW", "-5", "10", "dealer"}, models.ColPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListings([][]string{tt.row})
			require.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.col, pe.Column)
			assert.Equal(t, "listings", pe.Dataset)
		})
	}
}

func TestParseListingsShortRow(t *testing.T) {
	_, err := ParseListings([][]string{{"1", "VW", "10"}})
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseContacts(t *testing.T) {
	got, err := ParseContacts([][]string{
		{"L1", "1709251200000"},
		{"L9", " 1709337600000 "},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Contact{ListingID: "L1", TimestampMillis: 1709251200000}, got[0])
	assert.Equal(t, int64(1709337600000), got[1].TimestampMillis)
}

func TestParseContactsRejectsBadTimestamp(t *testing.T) {
	_, err := ParseContacts([][]string{{"L1", "yesterday"}})
	require.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "contacts", pe.Dataset)
	assert.Contains(t, pe.Error(), "yesterday")
}
