package simulation

import (
	"time"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// valuationEngine 每日估值。
// 日收益剔除当日新增投入: 定投/建仓注入的本金属于资金流入,
// 不能被算作投资收益。
type valuationEngine struct {
	totalInvestment float64
}

// snapshot 计算单日快照
func (v *valuationEngine) snapshot(date time.Time, assets []*assetState, prices map[types.AssetID]float64, prevValue, inflow float64) types.DailySnapshot {
	total := markValue(assets, prices)

	var dailyReturn float64
	if prevValue > 0 {
		dailyReturn = (total - prevValue - inflow) / prevValue
	}

	var normalized float64
	if v.totalInvestment > 0 {
		normalized = total / v.totalInvestment
	}

	return types.DailySnapshot{
		Date:            date,
		TotalValue:      total,
		NormalizedValue: normalized,
		DailyReturnPct:  dailyReturn * 100,
		Inflow:          inflow,
		Weights:         currentWeights(assets, prices, total),
	}
}
