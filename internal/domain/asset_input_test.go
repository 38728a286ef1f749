package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetInput_Parse(t *testing.T) {
	in := AssetInput{
		AssetName:          " Delivery Van ",
		Category:           "Vehicle",
		AcquisitionDate:    "2019-07-01",
		AcquisitionCost:    "38000.50",
		Condition:          "FAIR",
		UsefulLife:         8,
		MarketComparable:   "",
		LiquidationPercent: "60",
		MarketDemand:       "normal",
		EconomicCondition:  "recession",
		Notes:              "fleet",
	}

	asset, err := in.Parse()

	require.NoError(t, err)
	assert.Equal(t, "Delivery Van", asset.AssetName)
	assert.Equal(t, CategoryVehicle, asset.Category)
	assert.Equal(t, time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC), asset.AcquisitionDate)
	assert.True(t, asset.AcquisitionCost.Equal(decimal.RequireFromString("38000.50")))
	assert.Equal(t, ConditionFair, asset.Condition)
	assert.True(t, asset.MarketComparable.IsZero())
	assert.True(t, asset.LiquidationFactor.Equal(decimal.RequireFromString("0.6")))
	assert.Equal(t, EconomyRecession, asset.EconomicCondition)
	assert.Equal(t, "fleet", asset.Notes)
}

func TestAssetInput_ParseKeepsUnknownTags(t *testing.T) {
	in := AssetInput{
		AssetName:          "Widget",
		Category:           "spaceship",
		AcquisitionDate:    "2020-01-01",
		AcquisitionCost:    "100",
		Condition:          "good",
		UsefulLife:         5,
		LiquidationPercent: "50",
		MarketDemand:       "normal",
		EconomicCondition:  "stable",
	}

	asset, err := in.Parse()

	require.NoError(t, err)
	assert.Equal(t, Category("spaceship"), asset.Category)
}

func TestAssetInput_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *AssetInput)
		errMsg string
	}{
		{
			name:   "bad date",
			mutate: func(in *AssetInput) { in.AcquisitionDate = "01/02/2020" },
			errMsg: "acquisition date must be YYYY-MM-DD",
		},
		{
			name:   "bad cost",
			mutate: func(in *AssetInput) { in.AcquisitionCost = "ten" },
			errMsg: "invalid acquisition cost",
		},
		{
			name:   "bad comparable",
			mutate: func(in *AssetInput) { in.MarketComparable = "n/a" },
			errMsg: "invalid market comparable",
		},
		{
			name:   "percent above 100",
			mutate: func(in *AssetInput) { in.LiquidationPercent = "150" },
			errMsg: "liquidation factor must be between 0 and 1",
		},
		{
			name:   "empty name",
			mutate: func(in *AssetInput) { in.AssetName = "  " },
			errMsg: "asset name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := AssetInput{
				AssetName:          "Widget",
				Category:           "other",
				AcquisitionDate:    "2020-01-01",
				AcquisitionCost:    "100",
				Condition:          "good",
				UsefulLife:         5,
				LiquidationPercent: "50",
				MarketDemand:       "normal",
				EconomicCondition:  "stable",
			}
			tt.mutate(&in)

			_, err := in.Parse()

			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
