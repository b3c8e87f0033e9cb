package cost

import (
	"math"
)

// Model 费用模型接口
type Model interface {
	// Commission 按成交金额计算佣金
	Commission(tradeValue float64) float64
}

// DefaultModel 默认费用模型: 比例佣金 + 可选最低佣金
type DefaultModel struct {
	CommissionRate float64 // 佣金率
	MinCommission  float64 // 最低佣金
}

// NewDefaultModel 创建默认费用模型
func NewDefaultModel(commissionRate, minCommission float64) *DefaultModel {
	return &DefaultModel{
		CommissionRate: commissionRate,
		MinCommission:  minCommission,
	}
}

// NewZeroModel 创建零费用模型 (用于测试)
func NewZeroModel() *DefaultModel {
	return &DefaultModel{}
}

// Commission 计算佣金
func (m *DefaultModel) Commission(tradeValue float64) float64 {
	value := math.Abs(tradeValue)
	if value == 0 {
		return 0
	}

	commission := value * m.CommissionRate
	if commission < m.MinCommission {
		commission = m.MinCommission
	}
	return commission
}
