// Package marketdata 提供模拟所需的行情数据。
// 所有价格/汇率在模拟循环开始前全部驻留内存, 循环内不做任何阻塞 IO,
// 从而保证逐日回放是确定性的。
package marketdata

import (
	"sort"
	"time"

	"github.com/opsxjacky/portfolio-simulator/internal/schedule"
)

// MarketData 内存行情表: 按标的的日频价格 + 按货币的日频汇率
type MarketData struct {
	prices map[string]map[int64]float64 // symbol -> day -> price
	fx     map[string]map[int64]float64 // currency -> day -> rate
}

// New 创建空行情表
func New() *MarketData {
	return &MarketData{
		prices: make(map[string]map[int64]float64),
		fx:     make(map[string]map[int64]float64),
	}
}

func dayKey(t time.Time) int64 {
	return schedule.DateOnly(t).Unix()
}

// AddPrice 写入单日价格
func (m *MarketData) AddPrice(symbol string, date time.Time, price float64) {
	if m.prices[symbol] == nil {
		m.prices[symbol] = make(map[int64]float64)
	}
	m.prices[symbol][dayKey(date)] = price
}

// AddRate 写入单日汇率
func (m *MarketData) AddRate(currency string, date time.Time, rate float64) {
	if m.fx[currency] == nil {
		m.fx[currency] = make(map[int64]float64)
	}
	m.fx[currency][dayKey(date)] = rate
}

// PriceOn 查询标的当日价格
func (m *MarketData) PriceOn(symbol string, date time.Time) (float64, bool) {
	series, ok := m.prices[symbol]
	if !ok {
		return 0, false
	}
	p, ok := series[dayKey(date)]
	return p, ok
}

// RateOn 查询货币当日汇率, 实现 currency.RateSource
func (m *MarketData) RateOn(currency string, date time.Time) (float64, bool) {
	series, ok := m.fx[currency]
	if !ok {
		return 0, false
	}
	r, ok := series[dayKey(date)]
	return r, ok
}

// TradingDays 区间内所有标的出现过价格的日期并集, 升序
func (m *MarketData) TradingDays(start, end time.Time) []time.Time {
	startKey := dayKey(start)
	endKey := dayKey(end)

	seen := make(map[int64]bool)
	for _, series := range m.prices {
		for k := range series {
			if k >= startKey && k <= endKey {
				seen[k] = true
			}
		}
	}

	days := make([]time.Time, 0, len(seen))
	for k := range seen {
		days = append(days, time.Unix(k, 0).UTC())
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
