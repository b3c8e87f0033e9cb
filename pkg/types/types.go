package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AssetID 组合内资产的唯一标识。
// 同一标的允许在组合中出现多次 (不同的投资方式/金额), 因此标识按请求顺序
// 生成而非直接使用 symbol。相同请求两次模拟生成的 ID 完全一致。
type AssetID string

// MakeAssetID 按请求中的序号生成资产标识
func MakeAssetID(index int) AssetID {
	return AssetID("a" + strconv.Itoa(index))
}

// AssetType 资产类型
type AssetType string

const (
	AssetTypeStock AssetType = "stock"
	AssetTypeCash  AssetType = "cash"
)

// InvestmentType 投资方式
type InvestmentType string

const (
	InvestmentLumpSum InvestmentType = "lump_sum"
	InvestmentDCA     InvestmentType = "dca"
)

// FrequencyKind 调度周期类型
type FrequencyKind int

const (
	FrequencyNone FrequencyKind = iota
	FrequencyWeekly
	FrequencyMonthly
)

// Frequency 解析后的调度频率 (例如 weekly_2 = 每2周, monthly_3 = 每3个月)
type Frequency struct {
	Kind     FrequencyKind
	Interval int
}

// IsNone 是否为不调度
func (f Frequency) IsNone() bool {
	return f.Kind == FrequencyNone
}

// String 还原为配置字符串形式
func (f Frequency) String() string {
	switch f.Kind {
	case FrequencyWeekly:
		return fmt.Sprintf("weekly_%d", f.Interval)
	case FrequencyMonthly:
		return fmt.Sprintf("monthly_%d", f.Interval)
	default:
		return "none"
	}
}

// ParseFrequency 解析频率字符串。
// 支持 "none"、"weekly_<n>"、"monthly_<n>"; 其余一律返回 ConfigurationError,
// 不做静默回退。
func ParseFrequency(s string) (Frequency, error) {
	if s == "" || s == "none" {
		return Frequency{Kind: FrequencyNone}, nil
	}

	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return Frequency{}, &ConfigurationError{Field: "frequency", Reason: fmt.Sprintf("unsupported frequency %q", s)}
	}

	interval, err := strconv.Atoi(parts[1])
	if err != nil || interval < 1 {
		return Frequency{}, &ConfigurationError{Field: "frequency", Reason: fmt.Sprintf("invalid interval in frequency %q", s)}
	}

	switch parts[0] {
	case "weekly":
		return Frequency{Kind: FrequencyWeekly, Interval: interval}, nil
	case "monthly":
		return Frequency{Kind: FrequencyMonthly, Interval: interval}, nil
	default:
		return Frequency{}, &ConfigurationError{Field: "frequency", Reason: fmt.Sprintf("unsupported frequency %q", s)}
	}
}

// AssetAllocation 单个资产的配置 (不可变)
type AssetAllocation struct {
	ID             AssetID        `json:"id"`
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name,omitempty"`
	Currency       string         `json:"currency"`
	AssetType      AssetType      `json:"asset_type"`
	InvestmentType InvestmentType `json:"investment_type"`
	Amount         float64        `json:"amount,omitempty"` // 投入金额 (与 Weight 二选一)
	Weight         float64        `json:"weight"`           // 目标权重, 校验阶段统一填充
	DCAFrequency   Frequency      `json:"-"`
	DCAPeriods     int            `json:"dca_periods,omitempty"`
}

// InvestedAmount 该资产的总投入金额
func (a AssetAllocation) InvestedAmount(totalInvestment float64) float64 {
	if a.Amount > 0 {
		return a.Amount
	}
	return totalInvestment * a.Weight
}

// PortfolioRequest 一次模拟的完整请求 (不可变配置)
type PortfolioRequest struct {
	Allocations        []AssetAllocation
	StartDate          time.Time
	EndDate            time.Time
	CommissionRate     float64
	RebalanceFrequency Frequency
	TotalInvestment    float64
	BaseCurrency       string

	// 策略常量, 零值时由校验阶段填入默认值
	DelistingThresholdDays int     // 默认 30 天
	NoTradeThreshold       float64 // 默认 0.0001 (0.01%)
}

// TradeRecord 再平衡产生的单笔交易
type TradeRecord struct {
	AssetID AssetID `json:"asset_id"`
	Symbol  string  `json:"symbol"`
	Side    string  `json:"side"` // "BUY" or "SELL"
	Shares  float64 `json:"shares"`
	Price   float64 `json:"price"`
	Value   float64 `json:"value"`
	Fee     float64 `json:"fee"`
}

// RebalanceEvent 一次再平衡的完整记录
type RebalanceEvent struct {
	Date           time.Time           `json:"date"`
	WeightsBefore  map[AssetID]float64 `json:"weights_before"`
	WeightsAfter   map[AssetID]float64 `json:"weights_after"`
	Trades         []TradeRecord       `json:"trades"`
	CommissionPaid float64             `json:"commission_paid"`
}

// DelistingEvent 退市状态变更记录 (状态转移, 不是错误)
type DelistingEvent struct {
	Date           time.Time `json:"date"`
	AssetID        AssetID   `json:"asset_id"`
	Symbol         string    `json:"symbol"`
	DaysSincePrice int       `json:"days_since_price"`
	Relisted       bool      `json:"relisted,omitempty"`
}

// DailySnapshot 单个交易日的组合快照
type DailySnapshot struct {
	Date            time.Time           `json:"date"`
	TotalValue      float64             `json:"total_value"`
	NormalizedValue float64             `json:"normalized_value"`
	DailyReturnPct  float64             `json:"daily_return_pct"`
	Inflow          float64             `json:"inflow,omitempty"`
	Weights         map[AssetID]float64 `json:"weights"`
}

// PortfolioStatistics 模拟结束后归并出的绩效统计
type PortfolioStatistics struct {
	TotalReturnPct         float64 `json:"total_return_pct"`
	AnnualReturnPct        float64 `json:"annual_return_pct"`
	DurationDays           int     `json:"duration_days"`
	MaxDrawdownPct         float64 `json:"max_drawdown_pct"`
	AvgDrawdownPct         float64 `json:"avg_drawdown_pct"`
	AnnualVolatilityPct    float64 `json:"annual_volatility_pct"`
	SharpeRatio            float64 `json:"sharpe_ratio"`
	MaxConsecutiveGainDays int     `json:"max_consecutive_gain_days"`
	MaxConsecutiveLossDays int     `json:"max_consecutive_loss_days"`
	ProfitFactor           float64 `json:"profit_factor"`
	WinRatePct             float64 `json:"win_rate_pct"`
}

// IssueCounters 逐日降级事件计数, 保证每次跳过/回退都可被观测
type IssueCounters struct {
	MissingPrices  int      `json:"missing_prices"`
	MissingFXRates int      `json:"missing_fx_rates"`
	DCACarryDays   int      `json:"dca_carry_days"`
	Day0Failures   []string `json:"day0_failures,omitempty"`
}

// SimulationResult 一次模拟的全部输出
type SimulationResult struct {
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	TotalInvestment float64             `json:"total_investment"`
	FinalValue      float64             `json:"final_value"`
	TotalCommission float64             `json:"total_commission"`
	Snapshots       []DailySnapshot     `json:"snapshots"`
	RebalanceEvents []RebalanceEvent    `json:"rebalance_events"`
	DelistingEvents []DelistingEvent    `json:"delisting_events"`
	Statistics      PortfolioStatistics `json:"statistics"`
	Issues          IssueCounters       `json:"issues"`
}
