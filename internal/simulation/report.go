package simulation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// ResultSummary 结果摘要
type ResultSummary struct {
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	TotalInvestment     float64 `json:"total_investment"`
	FinalValue          float64 `json:"final_value"`
	TotalReturnPct      float64 `json:"total_return_pct"`
	AnnualReturnPct     float64 `json:"annual_return_pct"`
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	AnnualVolatilityPct float64 `json:"annual_volatility_pct"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	TotalCommission     float64 `json:"total_commission"`
	Rebalances          int     `json:"rebalances"`
	Delistings          int     `json:"delistings"`
}

// summarize 提取结果摘要
func summarize(result *types.SimulationResult) ResultSummary {
	return ResultSummary{
		StartDate:           result.StartDate.Format("2006-01-02"),
		EndDate:             result.EndDate.Format("2006-01-02"),
		TotalInvestment:     result.TotalInvestment,
		FinalValue:          result.FinalValue,
		TotalReturnPct:      result.Statistics.TotalReturnPct,
		AnnualReturnPct:     result.Statistics.AnnualReturnPct,
		MaxDrawdownPct:      result.Statistics.MaxDrawdownPct,
		AnnualVolatilityPct: result.Statistics.AnnualVolatilityPct,
		SharpeRatio:         result.Statistics.SharpeRatio,
		TotalCommission:     result.TotalCommission,
		Rebalances:          len(result.RebalanceEvents),
		Delistings:          len(result.DelistingEvents),
	}
}

// ExportJSON 导出结果到JSON文件
func ExportJSON(result *types.SimulationResult, filepath string) error {
	if result == nil {
		return fmt.Errorf("no results to export")
	}

	output := struct {
		Summary ResultSummary           `json:"summary"`
		Result  *types.SimulationResult `json:"result"`
	}{
		Summary: summarize(result),
		Result:  result,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// PrintSummary 打印模拟摘要
func PrintSummary(result *types.SimulationResult) {
	if result == nil {
		fmt.Println("No results available")
		return
	}
	s := summarize(result)

	fmt.Println("\n========== Simulation Summary ==========")
	fmt.Printf("Period: %s to %s\n", s.StartDate, s.EndDate)
	fmt.Printf("Total Investment: $%.2f\n", s.TotalInvestment)
	fmt.Printf("Final Value: $%.2f\n", s.FinalValue)
	fmt.Printf("Total Return: %.2f%%\n", s.TotalReturnPct)
	fmt.Printf("Annual Return: %.2f%%\n", s.AnnualReturnPct)
	fmt.Printf("Max Drawdown: %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("Annual Volatility: %.2f%%\n", s.AnnualVolatilityPct)
	fmt.Printf("Sharpe Ratio: %.2f\n", s.SharpeRatio)
	fmt.Printf("Total Commission: $%.2f\n", s.TotalCommission)
	fmt.Printf("Rebalances: %d\n", s.Rebalances)
	if s.Delistings > 0 {
		fmt.Printf("Delisting Events: %d\n", s.Delistings)
	}
	if len(result.Issues.Day0Failures) > 0 {
		fmt.Printf("Failed at start (no price): %v\n", result.Issues.Day0Failures)
	}
	fmt.Println("========================================")
}
