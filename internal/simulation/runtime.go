// Package simulation 实现组合模拟引擎: 严格顺序的逐日循环, 组合定投执行、
// 退市跟踪、再平衡与每日估值, 最终归并为绩效统计。
package simulation

import (
	"time"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// dcaState 定投资产的调度状态
type dcaState struct {
	installment        float64 // 单期投入金额
	periodsTotal       int
	periodsExecuted    int
	lastExecution      time.Time
	originalOccurrence int  // 首次建仓日的 "当月第几个星期X", 此后每月沿用
	pendingDue         bool // 到期但因缺价未能执行, 逐日重试
}

// assetState 单个资产的运行时状态。
// 由请求创建, 逐日被定投/再平衡/退市跟踪修改, 模拟结束即弃, 不做持久化。
type assetState struct {
	alloc  types.AssetAllocation
	shares float64 // 持股数, 永不为负
	cash   float64 // 现金余额, 仅现金资产使用

	delisted       bool
	lastValidPrice float64
	lastPriceDate  time.Time

	dca        *dcaState // 仅定投资产
	day0Failed bool      // 首日无价, 建仓失败的标记
}

// isCash 是否现金资产
func (a *assetState) isCash() bool {
	return a.alloc.AssetType == types.AssetTypeCash
}

// newAssetStates 由请求创建全部运行时状态, 保持请求顺序以保证确定性
func newAssetStates(req *types.PortfolioRequest) []*assetState {
	assets := make([]*assetState, 0, len(req.Allocations))
	for _, alloc := range req.Allocations {
		a := &assetState{alloc: alloc}
		if alloc.InvestmentType == types.InvestmentDCA {
			amount := alloc.InvestedAmount(req.TotalInvestment)
			a.dca = &dcaState{
				installment:  amount / float64(alloc.DCAPeriods),
				periodsTotal: alloc.DCAPeriods,
			}
		}
		assets = append(assets, a)
	}
	return assets
}
