package simulation

import (
	"fmt"
	"math"

	"github.com/opsxjacky/portfolio-simulator/internal/currency"
	"github.com/opsxjacky/portfolio-simulator/internal/schedule"
	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

const weightSumTolerance = 1e-3

// ValidateRequest 校验并规范化请求。
// 所有配置错误都在模拟开始前检出; 同时填充资产 ID、统一权重口径、
// 补全策略常量默认值。校验失败的请求不会产生任何模拟输出。
func ValidateRequest(req *types.PortfolioRequest) error {
	if len(req.Allocations) == 0 {
		return &types.ConfigurationError{Field: "portfolio", Reason: "no assets specified"}
	}
	if req.TotalInvestment <= 0 {
		return &types.ConfigurationError{Field: "total_investment", Reason: "must be positive"}
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return &types.ConfigurationError{Field: "dates", Reason: "start_date and end_date are required"}
	}
	if !req.StartDate.Before(req.EndDate) {
		return &types.ConfigurationError{Field: "dates", Reason: "start_date must be before end_date"}
	}
	if req.CommissionRate < 0 || req.CommissionRate >= 1 {
		return &types.ConfigurationError{Field: "commission", Reason: "must be in [0, 1)"}
	}

	if req.BaseCurrency == "" {
		req.BaseCurrency = "USD"
	}
	if req.DelistingThresholdDays <= 0 {
		req.DelistingThresholdDays = 30
	}
	if req.NoTradeThreshold <= 0 {
		req.NoTradeThreshold = 0.0001
	}

	var weightSum float64
	for i := range req.Allocations {
		a := &req.Allocations[i]
		if a.ID == "" {
			a.ID = types.MakeAssetID(i)
		}

		switch a.AssetType {
		case types.AssetTypeStock, types.AssetTypeCash:
		default:
			return &types.ConfigurationError{Field: a.Symbol, Reason: fmt.Sprintf("unknown asset type %q", a.AssetType)}
		}
		if a.AssetType == types.AssetTypeStock && a.Symbol == "" {
			return &types.ConfigurationError{Field: fmt.Sprintf("assets[%d]", i), Reason: "symbol is required"}
		}
		if !currency.Supported(a.Currency, req.BaseCurrency) {
			return &types.ConfigurationError{Field: a.Symbol, Reason: fmt.Sprintf("unsupported currency %q", a.Currency)}
		}

		if a.Amount < 0 || a.Weight < 0 {
			return &types.ConfigurationError{Field: a.Symbol, Reason: "amount and weight must not be negative"}
		}
		if (a.Amount > 0) == (a.Weight > 0) {
			return &types.ConfigurationError{Field: a.Symbol, Reason: "exactly one of amount or weight is required"}
		}
		if a.Amount > 0 {
			a.Weight = a.Amount / req.TotalInvestment
		}
		weightSum += a.Weight

		switch a.InvestmentType {
		case types.InvestmentLumpSum:
		case types.InvestmentDCA:
			if err := validateDCA(req, a); err != nil {
				return err
			}
		default:
			return &types.ConfigurationError{Field: a.Symbol, Reason: fmt.Sprintf("unknown investment type %q", a.InvestmentType)}
		}
	}

	if math.Abs(weightSum-1) > weightSumTolerance {
		return &types.ConfigurationError{Field: "portfolio", Reason: fmt.Sprintf("weights sum to %.4f, expected 1.0", weightSum)}
	}

	return nil
}

// validateDCA 校验定投参数, 并确认整个定投计划能落在模拟区间内。
// 逐期推演真实调度日期而不是按天数粗估, 保证边界行为精确。
func validateDCA(req *types.PortfolioRequest, a *types.AssetAllocation) error {
	if a.DCAPeriods < 1 {
		return &types.ConfigurationError{Field: a.Symbol, Reason: "dca_periods must be at least 1"}
	}
	if a.DCAFrequency.IsNone() {
		return &types.ConfigurationError{Field: a.Symbol, Reason: "dca_frequency is required for dca assets"}
	}

	ref := schedule.DateOnly(req.StartDate)
	occurrence := schedule.OccurrenceInMonth(ref)
	for i := 1; i < a.DCAPeriods; i++ {
		ref = schedule.NextOccurrence(ref, a.DCAFrequency, occurrence)
	}
	if ref.After(schedule.DateOnly(req.EndDate)) {
		return &types.ConfigurationError{
			Field:  a.Symbol,
			Reason: fmt.Sprintf("%d %s installments do not fit between start and end date", a.DCAPeriods, a.DCAFrequency),
		}
	}
	return nil
}
