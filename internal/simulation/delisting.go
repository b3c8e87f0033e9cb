package simulation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/portfolio-simulator/internal/schedule"
	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// delistingTracker 退市跟踪器。
// 连续 thresholdDays 天无价格的资产被标记为退市并冻结; 其最后有效价格
// 继续用于估值。价格重新出现即解除标记 (支持重新上市)。
type delistingTracker struct {
	thresholdDays int
	log           zerolog.Logger
}

func newDelistingTracker(thresholdDays int, log zerolog.Logger) *delistingTracker {
	return &delistingTracker{
		thresholdDays: thresholdDays,
		log:           log.With().Str("component", "delisting").Logger(),
	}
}

// update 刷新全部资产的退市状态, 并为缺价的退市资产注入最后有效价格,
// 使后续估值不会因此失败。返回当日发生的状态变更。
func (t *delistingTracker) update(date time.Time, assets []*assetState, prices map[types.AssetID]float64) []types.DelistingEvent {
	var events []types.DelistingEvent

	for _, a := range assets {
		if a.isCash() {
			continue
		}

		if p, ok := prices[a.alloc.ID]; ok && p > 0 {
			a.lastValidPrice = p
			a.lastPriceDate = schedule.DateOnly(date)
			if a.delisted {
				a.delisted = false
				t.log.Info().Str("symbol", a.alloc.Symbol).Time("date", date).Msg("price reappeared, asset relisted")
				events = append(events, types.DelistingEvent{
					Date:     date,
					AssetID:  a.alloc.ID,
					Symbol:   a.alloc.Symbol,
					Relisted: true,
				})
			}
			continue
		}

		daysSincePrice := int(schedule.DateOnly(date).Sub(a.lastPriceDate).Hours() / 24)
		if daysSincePrice >= t.thresholdDays && !a.delisted {
			a.delisted = true
			t.log.Warn().
				Str("symbol", a.alloc.Symbol).
				Int("days_since_price", daysSincePrice).
				Time("date", date).
				Msg("asset delisted, position frozen")
			events = append(events, types.DelistingEvent{
				Date:           date,
				AssetID:        a.alloc.ID,
				Symbol:         a.alloc.Symbol,
				DaysSincePrice: daysSincePrice,
			})
		}

		if a.delisted && a.lastValidPrice > 0 {
			prices[a.alloc.ID] = a.lastValidPrice
		}
	}

	return events
}
