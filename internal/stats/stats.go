// Package stats 将每日快照序列归并为绩效统计。
// 日收益已在估值阶段剔除当日新增投入, 这里的所有指标衡量的都是投资表现
// 而不是资金流入。
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

const tradingDaysPerYear = 252

// Calculate 归并统计指标
func Calculate(snapshots []types.DailySnapshot) types.PortfolioStatistics {
	var s types.PortfolioStatistics
	if len(snapshots) == 0 {
		return s
	}

	first := snapshots[0]
	last := snapshots[len(snapshots)-1]

	finalNormalized := last.NormalizedValue
	s.TotalReturnPct = (finalNormalized - 1) * 100

	s.DurationDays = int(last.Date.Sub(first.Date).Hours() / 24)
	s.AnnualReturnPct = annualizedReturnPct(finalNormalized, s.DurationDays)

	returns := make([]float64, len(snapshots))
	values := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		returns[i] = snap.DailyReturnPct
		values[i] = snap.NormalizedValue
	}

	s.MaxDrawdownPct, s.AvgDrawdownPct = drawdowns(values)

	// 日收益已是百分比, 标准差年化后无需再乘100
	if len(returns) > 1 {
		s.AnnualVolatilityPct = stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
	}
	if s.AnnualVolatilityPct != 0 {
		s.SharpeRatio = s.AnnualReturnPct / s.AnnualVolatilityPct
	}

	s.MaxConsecutiveGainDays, s.MaxConsecutiveLossDays = streaks(returns)
	s.ProfitFactor = profitFactor(returns)
	s.WinRatePct = winRate(returns)

	return s
}

// annualizedReturnPct 年化收益率 (%), 按 365.25 天/年复利折算
func annualizedReturnPct(finalNormalized float64, durationDays int) float64 {
	if finalNormalized <= 0 {
		return -100
	}
	days := float64(durationDays)
	if days < 1 {
		days = 1
	}
	return (math.Pow(finalNormalized, 365.25/days) - 1) * 100
}

// drawdowns 基于历史最高值计算最大回撤与平均回撤 (%)
func drawdowns(values []float64) (maxDD, avgDD float64) {
	runningMax := math.Inf(-1)
	var negatives []float64

	for _, v := range values {
		if v > runningMax {
			runningMax = v
		}
		if runningMax <= 0 {
			continue
		}
		dd := (v - runningMax) / runningMax * 100
		if dd < maxDD {
			maxDD = dd
		}
		if dd < 0 {
			negatives = append(negatives, dd)
		}
	}

	if len(negatives) > 0 {
		avgDD = stat.Mean(negatives, nil)
	}
	return maxDD, avgDD
}

// streaks 连续上涨/下跌天数的最大值
func streaks(returns []float64) (maxGain, maxLoss int) {
	var gain, loss int
	for _, r := range returns {
		switch {
		case r > 0:
			gain++
			loss = 0
		case r < 0:
			loss++
			gain = 0
		default:
			gain = 0
			loss = 0
		}
		if gain > maxGain {
			maxGain = gain
		}
		if loss > maxLoss {
			maxLoss = loss
		}
	}
	return maxGain, maxLoss
}

// profitFactor 盈利因子 = 正收益之和 / |负收益之和|。
// 约定: 只有盈利时为 2.0, 既无盈利也无亏损时为 1.0。
func profitFactor(returns []float64) float64 {
	var gains, losses float64
	for _, r := range returns {
		if r > 0 {
			gains += r
		} else if r < 0 {
			losses += r
		}
	}

	if losses == 0 {
		if gains > 0 {
			return 2.0
		}
		return 1.0
	}
	return gains / math.Abs(losses)
}

// winRate 上涨天数占比 (%)
func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var wins int
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns)) * 100
}
