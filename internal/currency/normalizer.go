// Package currency 将本币价格归一化为组合基准货币。
package currency

import (
	"time"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// QuoteStyle 汇率报价方式。每种货币的报价方式是静态属性, 不在运行时推断。
type QuoteStyle int

const (
	// QuoteDirect 直接报价: 1 基准货币 = X 外币 (KRW/JPY 等), 换算时除以汇率
	QuoteDirect QuoteStyle = iota
	// QuoteInverse 间接报价: 1 外币 = X 基准货币 (EUR/GBP 等), 换算时乘以汇率
	QuoteInverse
)

// quoteStyles 支持的货币及其报价方式
var quoteStyles = map[string]QuoteStyle{
	"KRW": QuoteDirect,
	"JPY": QuoteDirect,
	"CNY": QuoteDirect,
	"TWD": QuoteDirect,
	"INR": QuoteDirect,
	"HKD": QuoteDirect,
	"EUR": QuoteInverse,
	"GBP": QuoteInverse,
	"AUD": QuoteInverse,
	"NZD": QuoteInverse,
}

// Supported 货币是否受支持 (基准货币本身总是支持的)
func Supported(code, base string) bool {
	if code == "" || code == base {
		return true
	}
	_, ok := quoteStyles[code]
	return ok
}

// RateSource 日频汇率查询接口
type RateSource interface {
	RateOn(currency string, date time.Time) (float64, bool)
}

// Normalizer 货币归一化器。
// 当日汇率缺失或非正时回退到该货币最近一次的有效汇率 (forward fill);
// 从未出现过有效汇率则返回 MissingExchangeRateError, 由调用方按日降级处理。
type Normalizer struct {
	base      string
	rates     RateSource
	lastValid map[string]float64
}

// NewNormalizer 创建归一化器
func NewNormalizer(base string, rates RateSource) *Normalizer {
	return &Normalizer{
		base:      base,
		rates:     rates,
		lastValid: make(map[string]float64),
	}
}

// ResolveBasePrice 将 rawPrice (cur 计价) 换算为基准货币价格
func (n *Normalizer) ResolveBasePrice(symbol string, rawPrice float64, cur string, date time.Time) (float64, error) {
	if cur == "" || cur == n.base {
		return rawPrice, nil
	}

	rate, ok := n.rates.RateOn(cur, date)
	if !ok || rate <= 0 {
		rate, ok = n.lastValid[cur]
		if !ok {
			return 0, &types.MissingExchangeRateError{Currency: cur, Date: date}
		}
	} else {
		n.lastValid[cur] = rate
	}

	if quoteStyles[cur] == QuoteDirect {
		return rawPrice / rate, nil
	}
	return rawPrice * rate, nil
}
