package types

import (
	"fmt"
	"time"
)

// ConfigurationError 请求级配置错误。
// 在模拟开始前的校验阶段检出, 致命, 直接返回给调用方。
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Reason)
}

// MissingPriceError 单资产单日价格缺失 (未达退市阈值)。
// 非致命: 跳过该资产当日的动作, 记录后继续。
type MissingPriceError struct {
	Symbol string
	Date   time.Time
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s on %s", e.Symbol, e.Date.Format("2006-01-02"))
}

// MissingExchangeRateError 汇率缺失且无历史汇率可回退。
// 非致命: 跳过该资产当日的估值/交易。
type MissingExchangeRateError struct {
	Currency string
	Date     time.Time
}

func (e *MissingExchangeRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s on %s", e.Currency, e.Date.Format("2006-01-02"))
}

// CatastrophicDataError 首日完全没有可用价格。
// 仅对该资产的建仓致命, 其余资产照常模拟, 该条目被标记在结果中。
type CatastrophicDataError struct {
	Symbol string
	Date   time.Time
}

func (e *CatastrophicDataError) Error() string {
	return fmt.Sprintf("no usable price for %s at simulation start %s", e.Symbol, e.Date.Format("2006-01-02"))
}
