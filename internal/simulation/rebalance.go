package simulation

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/portfolio-simulator/internal/cost"
	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// rebalancer 再平衡器。
// 目标权重先按退市集合调整 (退市资产归零, 其余等比放大), 再对偏离超过
// 阈值的持仓交易到目标市值, 总佣金最后按比例摊到全部可交易头寸上。
type rebalancer struct {
	cost             cost.Model
	noTradeThreshold float64 // 偏离占组合总值的比例低于该值不交易
	log              zerolog.Logger
}

func newRebalancer(costModel cost.Model, noTradeThreshold float64, log zerolog.Logger) *rebalancer {
	return &rebalancer{
		cost:             costModel,
		noTradeThreshold: noTradeThreshold,
		log:              log.With().Str("component", "rebalance").Logger(),
	}
}

// adjustedTargetWeights 按退市集合调整目标权重。
// 退市资产权重归零, 剩余权重乘以 1/(1-退市权重和) 使总和保持 1.0;
// 全部退市时退化为原权重不变 (此时所有持仓都被冻结, 调整没有意义)。
func adjustedTargetWeights(original map[types.AssetID]float64, delisted map[types.AssetID]bool) map[types.AssetID]float64 {
	var delistedSum float64
	for id, w := range original {
		if delisted[id] {
			delistedSum += w
		}
	}

	adjusted := make(map[types.AssetID]float64, len(original))
	remaining := 1 - delistedSum
	if delistedSum == 0 || remaining <= 0 {
		for id, w := range original {
			adjusted[id] = w
		}
		return adjusted
	}

	scale := 1 / remaining
	for id, w := range original {
		if delisted[id] {
			adjusted[id] = 0
		} else {
			adjusted[id] = w * scale
		}
	}
	return adjusted
}

// execute 执行一次再平衡, 返回完整事件记录。组合总值为零时不动作。
func (r *rebalancer) execute(date time.Time, assets []*assetState, prices map[types.AssetID]float64) *types.RebalanceEvent {
	total := markValue(assets, prices)
	if total <= 0 {
		return nil
	}

	original := make(map[types.AssetID]float64, len(assets))
	delisted := make(map[types.AssetID]bool)
	for _, a := range assets {
		original[a.alloc.ID] = a.alloc.Weight
		if a.delisted {
			delisted[a.alloc.ID] = true
		}
	}
	targets := adjustedTargetWeights(original, delisted)

	// 冻结持仓无法变现, 目标市值只能在可交易部分内分配, 否则买入会凭空
	// 创造市值。无退市时 investable == total, 与直观公式一致。
	var frozenValue float64
	for _, a := range assets {
		if a.delisted && !a.isCash() {
			if price, ok := prices[a.alloc.ID]; ok && price > 0 {
				frozenValue += a.shares * price
			}
		}
	}
	investable := total - frozenValue

	event := &types.RebalanceEvent{
		Date:          date,
		WeightsBefore: currentWeights(assets, prices, total),
	}

	var totalCommission float64
	for _, a := range assets {
		targetValue := investable * targets[a.alloc.ID]

		if a.isCash() {
			// 现金直接调整到目标金额, 无佣金
			a.cash = targetValue
			continue
		}
		if a.delisted {
			// 冻结持仓, 无论偏离多大都不交易
			continue
		}

		price, ok := prices[a.alloc.ID]
		if !ok || price <= 0 {
			r.log.Warn().Str("symbol", a.alloc.Symbol).Time("date", date).Msg("no price at rebalance, position skipped")
			continue
		}

		currentValue := a.shares * price
		diff := targetValue - currentValue
		if math.Abs(diff)/total <= r.noTradeThreshold {
			continue
		}

		fee := r.cost.Commission(diff)
		a.shares = targetValue / price
		totalCommission += fee

		side := "BUY"
		if diff < 0 {
			side = "SELL"
		}
		event.Trades = append(event.Trades, types.TradeRecord{
			AssetID: a.alloc.ID,
			Symbol:  a.alloc.Symbol,
			Side:    side,
			Shares:  math.Abs(diff) / price,
			Price:   price,
			Value:   math.Abs(diff),
			Fee:     fee,
		})
	}

	// 总佣金按比例摊到全部可交易头寸上 (退市持仓冻结, 不参与摊销)
	if totalCommission > 0 && investable > 0 {
		scale := (investable - totalCommission) / investable
		for _, a := range assets {
			if a.isCash() {
				a.cash *= scale
			} else if !a.delisted {
				a.shares *= scale
			}
		}
	}

	event.CommissionPaid = totalCommission
	event.WeightsAfter = currentWeights(assets, prices, markValue(assets, prices))
	return event
}

// markValue 按当日价格计算组合总市值
func markValue(assets []*assetState, prices map[types.AssetID]float64) float64 {
	var total float64
	for _, a := range assets {
		if a.isCash() {
			total += a.cash
			continue
		}
		if price, ok := prices[a.alloc.ID]; ok && price > 0 {
			total += a.shares * price
		}
	}
	return total
}

// currentWeights 按当日价格计算当前权重 (含现金)
func currentWeights(assets []*assetState, prices map[types.AssetID]float64, total float64) map[types.AssetID]float64 {
	weights := make(map[types.AssetID]float64, len(assets))
	if total <= 0 {
		return weights
	}
	for _, a := range assets {
		var value float64
		if a.isCash() {
			value = a.cash
		} else if price, ok := prices[a.alloc.ID]; ok && price > 0 {
			value = a.shares * price
		}
		weights[a.alloc.ID] = value / total
	}
	return weights
}
