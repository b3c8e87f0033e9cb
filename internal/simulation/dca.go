package simulation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/portfolio-simulator/internal/cost"
	"github.com/opsxjacky/portfolio-simulator/internal/schedule"
	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// dcaExecutor 建仓与定投执行器
type dcaExecutor struct {
	cost cost.Model
	log  zerolog.Logger
}

func newDCAExecutor(costModel cost.Model, log zerolog.Logger) *dcaExecutor {
	return &dcaExecutor{
		cost: costModel,
		log:  log.With().Str("component", "dca").Logger(),
	}
}

// executeInitial 首日建仓。
// 一次性资产全额买入, 定投资产只买入第一期并记录调度基准
// (首日的 "当月第几个星期X" 此后每月沿用)。首日完全无价的股票资产
// 建仓失败, 仅该条目被标记, 其余资产照常。
func (e *dcaExecutor) executeInitial(day0 time.Time, assets []*assetState, prices map[types.AssetID]float64, totalInvestment float64, issues *types.IssueCounters) (inflow, commission float64) {
	occurrence := schedule.OccurrenceInMonth(day0)

	for _, a := range assets {
		amount := a.alloc.InvestedAmount(totalInvestment)
		if a.dca != nil {
			amount = a.dca.installment
			a.dca.lastExecution = schedule.DateOnly(day0)
			a.dca.originalOccurrence = occurrence
		}

		if a.isCash() {
			a.cash += amount
			inflow += amount
			if a.dca != nil {
				a.dca.periodsExecuted = 1
			}
			continue
		}

		price, ok := prices[a.alloc.ID]
		if !ok || price <= 0 {
			err := &types.CatastrophicDataError{Symbol: a.alloc.Symbol, Date: day0}
			e.log.Error().Err(err).Str("symbol", a.alloc.Symbol).Msg("initial purchase failed")
			issues.Day0Failures = append(issues.Day0Failures, a.alloc.Symbol)
			a.day0Failed = true
			if a.dca != nil {
				// 定投资产的首期顺延, 等价格出现再执行
				a.dca.pendingDue = true
			}
			continue
		}

		fee := e.cost.Commission(amount)
		a.shares += (amount - fee) / price
		inflow += amount
		commission += fee
		if a.dca != nil {
			a.dca.periodsExecuted = 1
		}
	}

	return inflow, commission
}

// executePeriodic 执行当日到期的定投。
// 到期但无价格时不推进 lastExecution, 义务保留并在之后每个交易日重试,
// 直到价格出现 (退市期间同样顺延)。每次顺延都会被计数与记录。
func (e *dcaExecutor) executePeriodic(current, previous time.Time, assets []*assetState, prices map[types.AssetID]float64, issues *types.IssueCounters) (inflow, commission float64) {
	for _, a := range assets {
		d := a.dca
		if d == nil || d.periodsExecuted >= d.periodsTotal {
			continue
		}

		due := d.pendingDue ||
			schedule.IsDueToday(current, previous, a.alloc.DCAFrequency, d.lastExecution, d.originalOccurrence)
		if !due {
			continue
		}

		if a.isCash() {
			a.cash += d.installment
			d.periodsExecuted++
			d.lastExecution = schedule.DateOnly(current)
			d.pendingDue = false
			inflow += d.installment
			continue
		}

		price, priced := prices[a.alloc.ID]
		if a.delisted || !priced || price <= 0 {
			d.pendingDue = true
			issues.DCACarryDays++
			e.log.Debug().
				Str("symbol", a.alloc.Symbol).
				Time("date", current).
				Bool("delisted", a.delisted).
				Msg("dca installment due but not executable, carried forward")
			continue
		}

		fee := e.cost.Commission(d.installment)
		a.shares += (d.installment - fee) / price
		d.periodsExecuted++
		d.lastExecution = schedule.DateOnly(current)
		d.pendingDue = false
		inflow += d.installment
		commission += fee
	}

	return inflow, commission
}
