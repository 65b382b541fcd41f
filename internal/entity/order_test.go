package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus_CaseInsensitive(t *testing.T) {
	tests := []struct {
		input string
		want  OrderStatus
	}{
		{"NEW", StatusNew},
		{"new", StatusNew},
		{"Confirmed", StatusConfirmed},
		{"finished", StatusFinished},
		{" cancelled ", StatusCancelled},
	}

	for _, tc := range tests {
		got, err := ParseOrderStatus(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseOrderStatus_InvalidListsAllowedValues(t *testing.T) {
	_, err := ParseOrderStatus("shipped")

	require.Error(t, err)
	assert.ErrorContains(t, err, "NEW, CONFIRMED, FINISHED, CANCELLED")
}

func TestProductSavings(t *testing.T) {
	discounted := Product{PriceRetail: 6000000, PriceRetailWithInstall: 5000000}
	assert.Equal(t, 1000000.0, discounted.Savings())

	// Sale above list is permitted at write time; no savings badge.
	inverted := Product{PriceRetail: 4000000, PriceRetailWithInstall: 5000000}
	assert.Equal(t, 0.0, inverted.Savings())
}
