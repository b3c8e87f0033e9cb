package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

func validRequest() *types.PortfolioRequest {
	return &types.PortfolioRequest{
		Allocations: []types.AssetAllocation{
			{Symbol: "SPY", AssetType: types.AssetTypeStock, InvestmentType: types.InvestmentLumpSum, Amount: 6000},
			{Symbol: "BND", AssetType: types.AssetTypeStock, InvestmentType: types.InvestmentLumpSum, Amount: 4000},
		},
		StartDate:       day("2024-01-02"),
		EndDate:         day("2024-12-31"),
		TotalInvestment: 10000,
	}
}

func TestValidateRequestNormalizes(t *testing.T) {
	req := validRequest()
	require.NoError(t, ValidateRequest(req))

	// 金额换算为权重, 默认值补全, ID 按顺序填充
	assert.InDelta(t, 0.6, req.Allocations[0].Weight, 1e-9)
	assert.InDelta(t, 0.4, req.Allocations[1].Weight, 1e-9)
	assert.Equal(t, types.MakeAssetID(0), req.Allocations[0].ID)
	assert.Equal(t, types.MakeAssetID(1), req.Allocations[1].ID)
	assert.Equal(t, "USD", req.BaseCurrency)
	assert.Equal(t, 30, req.DelistingThresholdDays)
	assert.InDelta(t, 0.0001, req.NoTradeThreshold, 1e-12)
}

func TestValidateRequestErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.PortfolioRequest)
	}{
		{"no assets", func(r *types.PortfolioRequest) { r.Allocations = nil }},
		{"zero investment", func(r *types.PortfolioRequest) { r.TotalInvestment = 0 }},
		{"start after end", func(r *types.PortfolioRequest) { r.StartDate = day("2025-01-01") }},
		{"commission too high", func(r *types.PortfolioRequest) { r.CommissionRate = 1 }},
		{"negative commission", func(r *types.PortfolioRequest) { r.CommissionRate = -0.1 }},
		{"amount and weight both set", func(r *types.PortfolioRequest) { r.Allocations[0].Weight = 0.6 }},
		{"amount and weight both empty", func(r *types.PortfolioRequest) { r.Allocations[0].Amount = 0 }},
		{"weights do not sum to one", func(r *types.PortfolioRequest) { r.Allocations[1].Amount = 3000 }},
		{"unknown currency", func(r *types.PortfolioRequest) { r.Allocations[0].Currency = "XYZ" }},
		{"unknown asset type", func(r *types.PortfolioRequest) { r.Allocations[0].AssetType = "crypto" }},
		{"unknown investment type", func(r *types.PortfolioRequest) { r.Allocations[0].InvestmentType = "margin" }},
		{"missing symbol", func(r *types.PortfolioRequest) { r.Allocations[0].Symbol = "" }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			c.mutate(req)
			err := ValidateRequest(req)
			var cfgErr *types.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestValidateDCAFitsInRange(t *testing.T) {
	req := validRequest()
	req.Allocations[1].InvestmentType = types.InvestmentDCA
	req.Allocations[1].DCAFrequency = types.Frequency{Kind: types.FrequencyMonthly, Interval: 1}
	req.Allocations[1].DCAPeriods = 12
	require.NoError(t, ValidateRequest(req))

	// 13期放不进一年
	req = validRequest()
	req.Allocations[1].InvestmentType = types.InvestmentDCA
	req.Allocations[1].DCAFrequency = types.Frequency{Kind: types.FrequencyMonthly, Interval: 1}
	req.Allocations[1].DCAPeriods = 13
	var cfgErr *types.ConfigurationError
	require.ErrorAs(t, ValidateRequest(req), &cfgErr)
}

func TestValidateDCAMissingParams(t *testing.T) {
	req := validRequest()
	req.Allocations[1].InvestmentType = types.InvestmentDCA

	var cfgErr *types.ConfigurationError
	require.ErrorAs(t, ValidateRequest(req), &cfgErr) // periods 缺失

	req.Allocations[1].DCAPeriods = 6
	require.ErrorAs(t, ValidateRequest(req), &cfgErr) // frequency 缺失

	req.Allocations[1].DCAFrequency = types.Frequency{Kind: types.FrequencyMonthly, Interval: 1}
	require.NoError(t, ValidateRequest(req))
}
