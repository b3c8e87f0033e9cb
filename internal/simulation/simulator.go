package simulation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/portfolio-simulator/internal/cost"
	"github.com/opsxjacky/portfolio-simulator/internal/currency"
	"github.com/opsxjacky/portfolio-simulator/internal/marketdata"
	"github.com/opsxjacky/portfolio-simulator/internal/schedule"
	"github.com/opsxjacky/portfolio-simulator/internal/stats"
	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// Simulator 组合模拟编排器。
// 严格顺序地遍历交易日: 每天先归一化价格、刷新退市状态, 再执行到期定投
// 与再平衡, 最后记录快照。循环内没有任何 IO, 相同输入必然产生相同输出。
// 所有依赖显式注入, 多个请求各持有自己的 Simulator 即可并行。
type Simulator struct {
	req       *types.PortfolioRequest
	market    *marketdata.MarketData
	costModel cost.Model
	log       zerolog.Logger
}

// New 创建模拟器
func New(req *types.PortfolioRequest, market *marketdata.MarketData, costModel cost.Model, log zerolog.Logger) *Simulator {
	return &Simulator{
		req:       req,
		market:    market,
		costModel: costModel,
		log:       log.With().Str("component", "simulator").Logger(),
	}
}

// Run 运行完整模拟
func (s *Simulator) Run() (*types.SimulationResult, error) {
	if err := ValidateRequest(s.req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	days := s.market.TradingDays(s.req.StartDate, s.req.EndDate)
	if len(days) == 0 {
		return nil, &types.ConfigurationError{Field: "dates", Reason: "no trading days in the requested range"}
	}

	normalizer := currency.NewNormalizer(s.req.BaseCurrency, s.market)
	delisting := newDelistingTracker(s.req.DelistingThresholdDays, s.log)
	dca := newDCAExecutor(s.costModel, s.log)
	reb := newRebalancer(s.costModel, s.req.NoTradeThreshold, s.log)
	valuation := &valuationEngine{totalInvestment: s.req.TotalInvestment}

	assets := newAssetStates(s.req)

	day0 := days[0]
	for _, a := range assets {
		a.lastPriceDate = day0
	}

	result := &types.SimulationResult{
		StartDate:       day0,
		EndDate:         days[len(days)-1],
		TotalInvestment: s.req.TotalInvestment,
		Snapshots:       make([]types.DailySnapshot, 0, len(days)),
	}

	s.log.Info().
		Time("start", day0).
		Time("end", days[len(days)-1]).
		Int("trading_days", len(days)).
		Int("assets", len(assets)).
		Msg("starting simulation")

	// 再平衡以上一次再平衡日为基准, 首日的当月次数固定沿用
	lastRebalance := day0
	rebalanceOccurrence := schedule.OccurrenceInMonth(day0)

	var prevValue float64
	var previous time.Time

	for i, date := range days {
		prices := s.pricesOn(date, normalizer, assets, &result.Issues)
		events := delisting.update(date, assets, prices)
		result.DelistingEvents = append(result.DelistingEvents, events...)

		var inflow, commission float64
		if i == 0 {
			inflow, commission = dca.executeInitial(date, assets, prices, s.req.TotalInvestment, &result.Issues)
		} else {
			inflow, commission = dca.executePeriodic(date, previous, assets, prices, &result.Issues)

			if schedule.IsDueToday(date, previous, s.req.RebalanceFrequency, lastRebalance, rebalanceOccurrence) {
				if ev := reb.execute(date, assets, prices); ev != nil {
					result.RebalanceEvents = append(result.RebalanceEvents, *ev)
					commission += ev.CommissionPaid
				}
				lastRebalance = date
			}
		}
		result.TotalCommission += commission

		snap := valuation.snapshot(date, assets, prices, prevValue, inflow)
		result.Snapshots = append(result.Snapshots, snap)

		prevValue = snap.TotalValue
		previous = date

		if (i+1)%100 == 0 || i == len(days)-1 {
			s.log.Debug().
				Int("day", i+1).
				Int("total", len(days)).
				Float64("value", snap.TotalValue).
				Msg("progress")
		}
	}

	result.FinalValue = result.Snapshots[len(result.Snapshots)-1].TotalValue
	result.Statistics = stats.Calculate(result.Snapshots)

	s.log.Info().
		Float64("final_value", result.FinalValue).
		Float64("total_return_pct", result.Statistics.TotalReturnPct).
		Int("rebalances", len(result.RebalanceEvents)).
		Msg("simulation finished")

	return result, nil
}

// pricesOn 构建当日已归一化为基准货币的价格表。
// 缺价/缺汇率只降级对应资产, 从不中断循环; 每次降级都被计数。
func (s *Simulator) pricesOn(date time.Time, normalizer *currency.Normalizer, assets []*assetState, issues *types.IssueCounters) map[types.AssetID]float64 {
	prices := make(map[types.AssetID]float64, len(assets))

	for _, a := range assets {
		if a.isCash() {
			continue
		}

		raw, ok := s.market.PriceOn(a.alloc.Symbol, date)
		if !ok || raw <= 0 {
			if !a.delisted {
				issues.MissingPrices++
				s.log.Debug().Str("symbol", a.alloc.Symbol).Time("date", date).Msg("no price today")
			}
			continue
		}

		price, err := normalizer.ResolveBasePrice(a.alloc.Symbol, raw, a.alloc.Currency, date)
		if err != nil {
			issues.MissingFXRates++
			s.log.Warn().Err(err).Str("symbol", a.alloc.Symbol).Time("date", date).Msg("currency normalization failed")
			continue
		}
		prices[a.alloc.ID] = price
	}

	return prices
}
